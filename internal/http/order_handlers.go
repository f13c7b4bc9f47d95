package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/checkout"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
)

type orderItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type placeOrderRequest struct {
	Items           []orderItemRequest `json:"items"`
	ShippingAddress shippingAddressDTO `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

func (s *Server) placeOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	items := make([]checkout.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkout.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	placed, err := s.checkout.PlaceOrder(user, checkout.PlaceOrderInput{
		Items:           items,
		ShippingAddress: req.ShippingAddress.toDomain(),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(placed))
}

func (s *Server) listOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := s.orders.ListByUser(user, queryInt(c, "page", 1), queryInt(c, "page_size", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": toOrderResponses(result.Orders),
		"total":  result.Total,
		"page":   result.Page,
		"pages":  result.Pages,
	})
}

func (s *Server) getOrder(c *gin.Context) {
	found, err := s.orders.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(found))
}

func (s *Server) orderTimeline(c *gin.Context) {
	events, err := s.orders.Timeline(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": toTimelineResponses(events)})
}

type updateOrderRequest struct {
	ShippingAddress shippingAddressDTO `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

func (s *Server) updateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	updated, err := s.orders.Update(c.Param("id"), order.UpdateInput{
		ShippingAddress: req.ShippingAddress.toDomain(),
		PaymentMethod:   domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(updated))
}

func (s *Server) deleteOrder(c *gin.Context) {
	if err := s.orders.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
