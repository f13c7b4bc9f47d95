package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// respondError переводит доменную ошибку в HTTP-статус и JSON-тело.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrCartItemNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOrderVersionConflict),
		errors.Is(err, domain.ErrOrderExists),
		errors.Is(err, domain.ErrPaymentAlreadyProcessed):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrItemQuantityInvalid),
		errors.Is(err, domain.ErrItemPriceInvalid),
		errors.Is(err, domain.ErrItemsRequired),
		errors.Is(err, domain.ErrUserIDRequired),
		errors.Is(err, domain.ErrPaymentMethodInvalid),
		errors.Is(err, domain.ErrShippingAddressIncomplete),
		errors.Is(err, domain.ErrPaymentNotRefundable),
		errors.Is(err, domain.ErrRefundAmountExceeded),
		errors.Is(err, domain.ErrProductNameRequired),
		errors.Is(err, domain.ErrProductPriceNegative),
		errors.Is(err, domain.ErrProductStockNegative):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// requireUser достаёт идентификатор пользователя или отвечает 400.
func requireUser(c *gin.Context) (string, bool) {
	id := userID(c)
	if id == "" {
		respondError(c, domain.ErrUserIDRequired)
		return "", false
	}
	return id, true
}
