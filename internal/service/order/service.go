package order

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const defaultPageSize = 10

// maxPageSize ограничивает размер страницы выборки заказов.
const maxPageSize = 100

// ListResult — страница заказов пользователя с данными пагинации.
type ListResult struct {
	Orders []domain.Order
	Total  int
	Page   int
	Pages  int
}

// UpdateInput — изменяемые администратором поля заказа.
type UpdateInput struct {
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
}

// Service реализует запросы и административные операции над заказами.
// Оформление заказа живёт отдельно, в checkout.Service.
type Service struct {
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	logger   *log.Entry
}

// NewService создаёт сервис заказов.
func NewService(orders domain.OrderRepository, timeline domain.TimelineRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "orders")
	}
	return &Service{orders: orders, timeline: timeline, logger: logger}
}

// ListByUser возвращает страницу заказов пользователя, новые первыми.
func (s *Service) ListByUser(userID string, page, pageSize int) (ListResult, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	orders, total, err := s.orders.ListByUser(userID, page, pageSize)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Error("failed to list orders")
		return ListResult{}, fmt.Errorf("list orders: %w", err)
	}

	pages := (total + pageSize - 1) / pageSize
	return ListResult{Orders: orders, Total: total, Page: page, Pages: pages}, nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// Timeline возвращает события жизненного цикла заказа.
func (s *Service) Timeline(orderID string) ([]domain.TimelineEvent, error) {
	if s.timeline == nil {
		return nil, nil
	}
	return s.timeline.List(orderID)
}

// Update применяет административные изменения к заказу.
// Ценовые поля не пересчитываются и от вызывающей стороны не принимаются.
func (s *Service) Update(orderID string, input UpdateInput) (domain.Order, error) {
	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !input.PaymentMethod.Valid() {
		return domain.Order{}, domain.ErrPaymentMethodInvalid
	}
	if !input.ShippingAddress.Complete() {
		return domain.Order{}, domain.ErrShippingAddressIncomplete
	}

	order.ShippingAddress = input.ShippingAddress
	order.PaymentMethod = input.PaymentMethod
	order.UpdatedAt = time.Now().UTC()

	if err := s.orders.Save(order); err != nil {
		s.logger.WithError(err).WithField("order_id", orderID).Error("failed to update order")
		return domain.Order{}, err
	}
	order.Version++

	return order, nil
}

// Delete удаляет заказ.
func (s *Service) Delete(orderID string) error {
	if err := s.orders.Delete(orderID); err != nil {
		return err
	}
	s.logger.WithField("order_id", orderID).Info("order deleted")
	return nil
}
