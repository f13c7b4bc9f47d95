package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) payOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	pay, err := s.payments.ProcessPayment(c.Param("id"), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(pay))
}

type refundRequest struct {
	// Amount опционален: пустое значение — полный возврат остатка.
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

func (s *Server) refundOrder(c *gin.Context) {
	var req refundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	pay, err := s.payments.RefundPayment(c.Param("id"), req.Amount, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(pay))
}

func (s *Server) getOrderPayment(c *gin.Context) {
	pay, err := s.payments.GetByOrderID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(pay))
}
