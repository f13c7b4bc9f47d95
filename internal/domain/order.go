package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod — способ оплаты из фиксированного перечня.
type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPayPal     PaymentMethod = "paypal"
	PaymentMethodStripe     PaymentMethod = "stripe"
)

// Valid проверяет, что способ оплаты относится к поддерживаемым значениям.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCreditCard, PaymentMethodPayPal, PaymentMethodStripe:
		return true
	default:
		return false
	}
}

// ShippingAddress — адрес доставки заказа. Все поля обязательны.
type ShippingAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// Complete проверяет, что все поля адреса заполнены.
func (a ShippingAddress) Complete() bool {
	return a.Street != "" && a.City != "" && a.State != "" && a.ZipCode != "" && a.Country != ""
}

// PaymentResult — сведения об успешном списании, приходящие от платёжного слоя.
type PaymentResult struct {
	ID           string
	Status       string
	UpdateTime   string
	EmailAddress string
}

// OrderItem представляет одну позицию заказа.
// Цена копируется из запроса/корзины в момент оформления и после этого неизменна.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID        string
	ProductID string
	Quantity  int32
	Price     decimal.Decimal
	CreatedAt time.Time
}

// Subtotal возвращает стоимость позиции: quantity × price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// OrderStatus — производный статус заказа. Отдельным полем не хранится,
// вычисляется из isPaid/paidAt: created(unpaid) → paid → refunded.
type OrderStatus string

const (
	OrderStatusCreated  OrderStatus = "created"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusRefunded OrderStatus = "refunded"
)

// Order агрегирует состояние заказа и его позиции. Позиции принадлежат
// заказу целиком и отдельно не адресуются.
type Order struct {
	ID     string
	UserID string
	Items  []OrderItem
	// Ценовые поля всегда пересчитываются при создании и никогда
	// не принимаются от вызывающей стороны.
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal

	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod

	IsPaid        bool
	PaidAt        *time.Time
	PaymentResult *PaymentResult

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Status возвращает производный статус заказа.
func (o *Order) Status() OrderStatus {
	switch {
	case o.IsPaid:
		return OrderStatusPaid
	case o.PaidAt != nil:
		// isPaid сброшен после возврата средств, paidAt остаётся как след оплаты.
		return OrderStatusRefunded
	default:
		return OrderStatusCreated
	}
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.UserID == "" {
		errs = append(errs, ErrUserIDRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if !o.PaymentMethod.Valid() {
		errs = append(errs, ErrPaymentMethodInvalid)
	}
	if !o.ShippingAddress.Complete() {
		errs = append(errs, ErrShippingAddressIncomplete)
	}

	for _, item := range o.Items {
		if item.Quantity <= 0 {
			errs = append(errs, ErrItemQuantityInvalid)
		}
		if item.Price.IsNegative() {
			errs = append(errs, ErrItemPriceInvalid)
		}
	}

	// Сверяем totalPrice с суммой компонент.
	if !o.TotalPrice.Equal(o.ItemsPrice.Add(o.TaxPrice).Add(o.ShippingPrice)) {
		errs = append(errs, ErrTotalPriceMismatch)
	}

	return errs
}
