package domain

import "errors"

var (
	// ErrProductNotFound возвращается, если товар не найден в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrProductNameRequired — у товара отсутствует название.
	ErrProductNameRequired = errors.New("product name is required")
	// ErrProductPriceNegative — цена товара не может быть отрицательной.
	ErrProductPriceNegative = errors.New("product price must be non-negative")
	// ErrProductStockNegative — остаток товара не может быть отрицательным.
	ErrProductStockNegative = errors.New("product stock must be non-negative")
	// ErrCartNotFound возвращается, если у пользователя нет корзины.
	ErrCartNotFound = errors.New("cart not found")
	// ErrCartItemNotFound — позиция с указанным товаром отсутствует в корзине.
	ErrCartItemNotFound = errors.New("product not found in cart")
	// ErrInsufficientStock — доступного остатка не хватает под запрошенное количество.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderExists — заказ с таким идентификатором уже сохранён.
	ErrOrderExists = errors.New("order already exists")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
	// Ошибка отсутствующего идентификатора пользователя.
	ErrUserIDRequired = errors.New("user_id is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка при некорректном количестве товара (<= 0).
	ErrItemQuantityInvalid = errors.New("item quantity must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия totalPrice и суммы itemsPrice+taxPrice+shippingPrice.
	ErrTotalPriceMismatch = errors.New("order total does not match computed pricing")
	// Ошибка неподдерживаемого способа оплаты.
	ErrPaymentMethodInvalid = errors.New("unsupported payment method")
	// Ошибка неполного адреса доставки.
	ErrShippingAddressIncomplete = errors.New("shipping address is incomplete")
	// ErrPaymentNotFound возвращается, если платёж не найден.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentAlreadyProcessed — по заказу уже есть завершённый платёж.
	ErrPaymentAlreadyProcessed = errors.New("payment already processed for this order")
	// ErrPaymentNotRefundable — вернуть можно только завершённый платёж.
	ErrPaymentNotRefundable = errors.New("only completed payments can be refunded")
	// ErrRefundAmountExceeded — сумма возврата больше суммы платежа.
	ErrRefundAmountExceeded = errors.New("refund amount cannot exceed payment amount")
	// ErrOutboxPublish — ошибка при публикации сообщения из outbox.
	ErrOutboxPublish = errors.New("outbox publish failed")
)

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
