package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cart, err := s.carts.GetCart(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity"`
}

func (s *Server) addToCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cart, err := s.carts.AddToCart(user, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

func (s *Server) updateCartItem(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	cart, err := s.carts.UpdateItem(user, c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (s *Server) removeFromCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	cart, err := s.carts.RemoveFromCart(user, c.Param("productId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (s *Server) clearCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if err := s.carts.ClearCart(user); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
