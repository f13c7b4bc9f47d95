package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// maxSaveRetries — число повторов сохранения заказа при конфликте версий.
const maxSaveRetries = 3

// Service — платёжная заглушка: платёж «проходит» мгновенно, без
// обращения к внешнему шлюзу. Семантика статусов при этом настоящая.
type Service struct {
	orders   domain.OrderRepository
	payments domain.PaymentRepository
	outbox   domain.OutboxRepository
	timeline domain.TimelineRepository
	logger   *log.Entry
}

// NewService создаёт платёжный сервис.
func NewService(
	orders domain.OrderRepository,
	payments domain.PaymentRepository,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "payments")
	}
	return &Service{
		orders:   orders,
		payments: payments,
		outbox:   outbox,
		timeline: timeline,
		logger:   logger,
	}
}

// ProcessPayment проводит оплату заказа. Для уже оплаченного заказа
// возвращает ErrPaymentAlreadyProcessed.
func (s *Service) ProcessPayment(orderID, userID string) (domain.Payment, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Payment{}, err
	}
	if order.IsPaid {
		return domain.Payment{}, domain.ErrPaymentAlreadyProcessed
	}
	if existing, err := s.payments.GetByOrderID(orderID); err == nil &&
		existing.Status == domain.PaymentStatusCompleted {
		return domain.Payment{}, domain.ErrPaymentAlreadyProcessed
	}

	now := time.Now().UTC()
	pay := domain.Payment{
		ID:             uuid.NewString(),
		OrderID:        order.ID,
		UserID:         userID,
		Amount:         order.TotalPrice,
		Currency:       "USD",
		Method:         order.PaymentMethod,
		Status:         domain.PaymentStatusCompleted,
		TransactionID:  "txn_" + uuid.NewString(),
		RefundedAmount: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.payments.Create(pay); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Error("failed to persist payment")
		return domain.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	result := &domain.PaymentResult{
		ID:         pay.TransactionID,
		Status:     string(pay.Status),
		UpdateTime: now.Format(time.RFC3339),
	}
	err = s.mutateOrder(orderID, func(o *domain.Order) {
		o.IsPaid = true
		o.PaidAt = &now
		o.PaymentResult = result
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":       orderID,
		"payment_id":     pay.ID,
		"transaction_id": pay.TransactionID,
	}).Info("payment processed")

	s.appendTimeline(orderID, "OrderPaid", "")
	s.emitEvent(orderID, "OrderPaid", map[string]interface{}{
		"payment_id":     pay.ID,
		"transaction_id": pay.TransactionID,
		"amount":         pay.Amount.String(),
	})

	return pay, nil
}

// RefundPayment возвращает сумму по платежу заказа и снимает с заказа
// признак оплаты. Повторная частичная выплата сверх суммы платежа
// отклоняется с ErrRefundAmountExceeded.
func (s *Service) RefundPayment(orderID string, amount decimal.Decimal, reason string) (domain.Payment, error) {
	pay, err := s.payments.GetByOrderID(orderID)
	if err != nil {
		return domain.Payment{}, err
	}
	if pay.Status != domain.PaymentStatusCompleted && pay.Status != domain.PaymentStatusRefunded {
		return domain.Payment{}, domain.ErrPaymentNotRefundable
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		amount = pay.Amount.Sub(pay.RefundedAmount)
	}
	if pay.RefundedAmount.Add(amount).GreaterThan(pay.Amount) {
		return domain.Payment{}, domain.ErrRefundAmountExceeded
	}

	now := time.Now().UTC()
	pay.RefundedAmount = pay.RefundedAmount.Add(amount)
	pay.Status = domain.PaymentStatusRefunded
	pay.RefundedAt = &now
	pay.UpdatedAt = now
	if err := s.payments.Save(pay); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Error("failed to persist refund")
		return domain.Payment{}, fmt.Errorf("save refund: %w", err)
	}

	err = s.mutateOrder(orderID, func(o *domain.Order) {
		o.IsPaid = false
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.logger.WithFields(log.Fields{
		"order_id":   orderID,
		"payment_id": pay.ID,
		"amount":     amount.String(),
	}).Info("payment refunded")

	s.appendTimeline(orderID, "OrderRefunded", reason)
	s.emitEvent(orderID, "OrderRefunded", map[string]interface{}{
		"payment_id": pay.ID,
		"amount":     amount.String(),
		"reason":     reason,
	})

	return pay, nil
}

// GetByOrderID возвращает платёж заказа.
func (s *Service) GetByOrderID(orderID string) (domain.Payment, error) {
	return s.payments.GetByOrderID(orderID)
}

// mutateOrder перечитывает заказ и сохраняет его с оптимистической
// блокировкой, повторяя при конфликте версий.
func (s *Service) mutateOrder(orderID string, mutate func(*domain.Order)) error {
	var lastErr error
	for attempt := 0; attempt < maxSaveRetries; attempt++ {
		order, err := s.orders.Get(orderID)
		if err != nil {
			return err
		}
		mutate(&order)
		order.UpdatedAt = time.Now().UTC()

		err = s.orders.Save(order)
		if err == nil {
			return nil
		}
		if !domain.IsVersionConflict(err) {
			s.logger.WithError(err).WithField("order_id", orderID).Error("failed to update order")
			return fmt.Errorf("save order: %w", err)
		}
		lastErr = err
	}
	return fmt.Errorf("save order after %d attempts: %w", maxSaveRetries, lastErr)
}

func (s *Service) appendTimeline(orderID, eventType, reason string) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: time.Now().UTC(),
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append timeline event failed")
	}
}

func (s *Service) emitEvent(orderID, eventType string, payload map[string]interface{}) {
	if s.outbox == nil {
		return
	}
	payload["order_id"] = orderID
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Error("marshal event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   orderID,
		EventType:     eventType,
		Payload:       data,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Error("enqueue event failed")
	}
}
