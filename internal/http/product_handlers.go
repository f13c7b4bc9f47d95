package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

type productRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
	Images      []string        `json:"images"`
	Tags        []string        `json:"tags"`
	Active      *bool           `json:"active"`
	SellerID    string          `json:"seller_id"`
}

func (r productRequest) toDomain() domain.Product {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return domain.Product{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Stock:       r.Stock,
		Images:      r.Images,
		Tags:        r.Tags,
		Active:      active,
		SellerID:    r.SellerID,
	}
}

func (s *Server) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	product, err := s.catalog.Create(req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (s *Server) getProduct(c *gin.Context) {
	product, err := s.catalog.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) listProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Category:   c.Query("category"),
		Search:     c.Query("q"),
		ActiveOnly: c.Query("include_inactive") != "true",
		SortBy:     c.Query("sort"),
		SortDesc:   c.Query("order") == "desc",
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 0),
	}
	if v := c.Query("min_price"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.MinPrice = &price
		}
	}
	if v := c.Query("max_price"); v != "" {
		if price, err := decimal.NewFromString(v); err == nil {
			filter.MaxPrice = &price
		}
	}

	result, err := s.catalog.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": toProductResponses(result.Products),
		"total":    result.Total,
		"page":     result.Page,
		"pages":    result.Pages,
	})
}

func (s *Server) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	product := req.toDomain()
	product.ID = c.Param("id")

	updated, err := s.catalog.Update(product)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(updated))
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.catalog.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setStockRequest struct {
	Stock int32 `json:"stock"`
}

func (s *Server) setStock(c *gin.Context) {
	var req setStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	product, err := s.inventory.SetStock(c.Param("id"), req.Stock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

type adjustStockRequest struct {
	Delta int32 `json:"delta"`
}

func (s *Server) adjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	product, err := s.inventory.AdjustStock(c.Param("id"), req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (s *Server) checkStock(c *gin.Context) {
	required := int32(queryInt(c, "qty", 1))
	available, err := s.inventory.CheckStock(c.Param("id"), required)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": c.Param("id"), "available": available})
}

func (s *Server) lowStockProducts(c *gin.Context) {
	threshold := int32(queryInt(c, "threshold", 0))
	products, err := s.inventory.LowStockProducts(threshold)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductResponses(products)})
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v := c.Query(name)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}
