package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/service/cart"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/service/checkout"
	"github.com/vladislavdragonenkov/shop/internal/service/inventory"
	"github.com/vladislavdragonenkov/shop/internal/service/order"
	"github.com/vladislavdragonenkov/shop/internal/service/payment"
)

// userIDHeader — идентификатор пользователя приходит из заголовка:
// аутентификацию выполняет внешний шлюз, сервис ей доверяет.
const userIDHeader = "X-User-ID"

// Server — HTTP-обвязка сервисов магазина поверх gin.
type Server struct {
	engine    *gin.Engine
	catalog   *catalog.Service
	carts     *cart.Service
	checkout  *checkout.Service
	orders    *order.Service
	payments  *payment.Service
	inventory *inventory.Service
	logger    *log.Entry
}

// NewServer собирает gin-engine со всеми маршрутами API.
func NewServer(
	catalogSvc *catalog.Service,
	cartSvc *cart.Service,
	checkoutSvc *checkout.Service,
	orderSvc *order.Service,
	paymentSvc *payment.Service,
	inventorySvc *inventory.Service,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http")
	}

	engine := gin.New()
	engine.Use(requestLogger(logger), gin.Recovery())

	s := &Server{
		engine:    engine,
		catalog:   catalogSvc,
		carts:     cartSvc,
		checkout:  checkoutSvc,
		orders:    orderSvc,
		payments:  paymentSvc,
		inventory: inventorySvc,
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

// Engine возвращает собранный gin.Engine.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.POST("", s.createProduct)
		products.GET("", s.listProducts)
		products.GET("/low-stock", s.lowStockProducts)
		products.GET("/:id", s.getProduct)
		products.PUT("/:id", s.updateProduct)
		products.DELETE("/:id", s.deleteProduct)
		products.PUT("/:id/stock", s.setStock)
		products.POST("/:id/stock/adjust", s.adjustStock)
		products.GET("/:id/stock", s.checkStock)

		carts := v1.Group("/cart")
		carts.GET("", s.getCart)
		carts.POST("/items", s.addToCart)
		carts.PUT("/items/:productId", s.updateCartItem)
		carts.DELETE("/items/:productId", s.removeFromCart)
		carts.DELETE("", s.clearCart)

		orders := v1.Group("/orders")
		orders.POST("", s.placeOrder)
		orders.GET("", s.listOrders)
		orders.GET("/:id", s.getOrder)
		orders.GET("/:id/timeline", s.orderTimeline)
		orders.PUT("/:id", s.updateOrder)
		orders.DELETE("/:id", s.deleteOrder)
		orders.POST("/:id/pay", s.payOrder)
		orders.POST("/:id/refund", s.refundOrder)
		orders.GET("/:id/payment", s.getOrderPayment)
	}
}

// requestLogger пишет access-лог в стиле остальных компонентов.
func requestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := logger.WithFields(log.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Warn("request failed")
			return
		}
		entry.Debug("request handled")
	}
}

func userID(c *gin.Context) string {
	return c.GetHeader(userIDHeader)
}
