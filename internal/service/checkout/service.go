package checkout

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
)

// OrderItemInput — позиция заказа из проверенного запроса.
// Цена приходит от вызывающей стороны и при оформлении не перечитывается из каталога.
type OrderItemInput struct {
	ProductID string
	Quantity  int32
	Price     decimal.Decimal
}

// PlaceOrderInput — данные оформления заказа после schema-валидации.
type PlaceOrderInput struct {
	Items           []OrderItemInput
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
}

// Service реализует workflow оформления заказа: расчёт цен, сохранение
// заказа, списание остатков и очистка корзины — строго в этом порядке.
type Service struct {
	orders    domain.OrderRepository
	carts     domain.CartRepository
	inventory domain.StockAdjuster
	outbox    domain.OutboxRepository
	timeline  domain.TimelineRepository
	logger    *log.Entry
	metrics   *metrics.CheckoutMetrics
}

// NewService создаёт рабочий экземпляр checkout-сервиса.
func NewService(
	orders domain.OrderRepository,
	carts domain.CartRepository,
	inventory domain.StockAdjuster,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Service{
		orders:    orders,
		carts:     carts,
		inventory: inventory,
		outbox:    outbox,
		timeline:  timeline,
		logger:    logger,
		metrics:   metrics.NewCheckoutMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	carts domain.CartRepository,
	inventory domain.StockAdjuster,
	outbox domain.OutboxRepository,
	timeline domain.TimelineRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Service{
		orders:    orders,
		carts:     carts,
		inventory: inventory,
		outbox:    outbox,
		timeline:  timeline,
		logger:    logger,
	}
}

// PlaceOrder оформляет заказ пользователя.
//
// Последовательность фиксирована, каждый шаг — отдельный commit,
// общей транзакции поверх шагов нет:
//  1. расчёт цен (itemsPrice, tax 15%, доставка, total);
//  2. сохранение заказа — единственный обязательный side effect,
//     при ошибке операция прерывается целиком;
//  3. по-позиционное списание остатков best-effort: отсутствующий товар
//     пропускается без отката заказа, ошибка хранилища прерывает
//     оставшиеся шаги, но заказ не отзывается;
//  4. безусловное удаление корзины пользователя (идемпотентно).
func (s *Service) PlaceOrder(userID string, input PlaceOrderInput) (domain.Order, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordCheckoutDuration(time.Since(start))
		}
	}()

	now := time.Now().UTC()
	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.OrderItem{
			ID:        uuid.NewString(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			CreatedAt: now,
		})
	}

	pricing := domain.ComputePricing(items)

	order := domain.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ItemsPrice:      pricing.ItemsPrice,
		TaxPrice:        pricing.TaxPrice,
		ShippingPrice:   pricing.ShippingPrice,
		TotalPrice:      pricing.TotalPrice,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		IsPaid:          false,
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, errors.Join(errs...)
	}

	if err := s.orders.Create(order); err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to persist order")
		if s.metrics != nil {
			s.metrics.RecordOrderFailed()
		}
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
	}
	s.appendTimeline(order.ID, "OrderCreated", "", order.CreatedAt)
	s.emitEvent(&order, "OrderCreated", map[string]interface{}{
		"user_id":     order.UserID,
		"total_price": order.TotalPrice.String(),
		"items_count": len(order.Items),
	})

	if err := s.decrementStock(order); err != nil {
		// Заказ уже зафиксирован и не отзывается: вызывающая сторона
		// видит ошибку, но запись остаётся (известный пробел политики).
		return domain.Order{}, err
	}

	if err := s.carts.Delete(userID); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"user_id":  userID,
			"order_id": order.ID,
		}).Error("failed to clear cart after order")
		return domain.Order{}, fmt.Errorf("clear cart: %w", err)
	}

	return order, nil
}

// decrementStock списывает остатки по каждой позиции заказа независимо.
// Отсутствующий товар пропускается; отката заказа и прежних позиций нет.
func (s *Service) decrementStock(order domain.Order) error {
	for _, item := range order.Items {
		_, err := s.inventory.AdjustStock(item.ProductID, -item.Quantity)
		if err == nil {
			continue
		}
		if errors.Is(err, domain.ErrProductNotFound) {
			s.logger.WithFields(log.Fields{
				"order_id":   order.ID,
				"product_id": item.ProductID,
			}).Warn("stock decrement skipped: product not found")
			continue
		}

		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"product_id": item.ProductID,
		}).Error("stock decrement failed")
		return fmt.Errorf("adjust stock for product %s: %w", item.ProductID, err)
	}
	return nil
}

func (s *Service) appendTimeline(orderID, eventType, reason string, occurred time.Time) {
	if s.timeline == nil {
		return
	}
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: occurred,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append timeline event failed")
	} else if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

func (s *Service) emitEvent(order *domain.Order, eventType string, payload map[string]interface{}) {
	if s.outbox == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["order_id"] = order.ID
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Error("marshal event failed")
		return
	}

	msg := domain.OutboxMessage{
		AggregateType: "order",
		AggregateID:   order.ID,
		EventType:     eventType,
		Payload:       data,
	}
	if _, err := s.outbox.Enqueue(msg); err != nil {
		// Публикация событий best-effort: оформление заказа из-за outbox не падает.
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Error("enqueue event failed")
	} else if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}
