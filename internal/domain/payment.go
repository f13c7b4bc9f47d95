package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus описывает состояние платежа в системе.
type PaymentStatus string

const (
	// PaymentStatusPending — платёж инициирован, но не подтверждён.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusProcessing — платёж передан «шлюзу» (здесь — заглушке).
	PaymentStatusProcessing PaymentStatus = "processing"
	// PaymentStatusCompleted — деньги списаны в пользу мерчанта.
	PaymentStatusCompleted PaymentStatus = "completed"
	// PaymentStatusFailed — платёж отклонён или произошла ошибка.
	PaymentStatusFailed PaymentStatus = "failed"
	// PaymentStatusRefunded — деньги возвращены клиенту полностью или частично.
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment описывает платёж, связанный с заказом.
// Реальной интеграции с платёжным шлюзом нет: обработка — заглушка.
type Payment struct {
	ID             string
	OrderID        string
	UserID         string
	Amount         decimal.Decimal
	Currency       string
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionID  string
	RefundedAmount decimal.Decimal
	RefundedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
