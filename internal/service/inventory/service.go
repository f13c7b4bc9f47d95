package inventory

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/metrics"
)

// Service управляет остатками товаров поверх ProductRepository.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
	metrics  *metrics.InventoryMetrics
}

// NewService создаёт сервис управления остатками.
func NewService(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "inventory")
	}
	return &Service{
		products: products,
		logger:   logger,
		metrics:  metrics.NewInventoryMetrics(),
	}
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "inventory")
	}
	return &Service{products: products, logger: logger}
}

// AdjustStock применяет дельту к остатку товара: max(0, stock + delta).
// Перерасход не считается ошибкой — остаток прижимается к нулю.
// Намеренно read-modify-write без блокировок и compare-and-swap:
// конкурентные списания по одному товару не сериализуются.
func (s *Service) AdjustStock(productID string, delta int32) (domain.Product, error) {
	product, err := s.products.Get(productID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordAdjustment("not_found")
		}
		return domain.Product{}, err
	}

	newStock := product.Stock + delta
	clamped := newStock < 0
	if clamped {
		newStock = 0
	}

	product.Stock = newStock
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Save(product); err != nil {
		if s.metrics != nil {
			s.metrics.RecordAdjustment("error")
		}
		return domain.Product{}, fmt.Errorf("save product stock: %w", err)
	}

	if clamped {
		s.logger.WithFields(log.Fields{
			"product_id": productID,
			"delta":      delta,
		}).Warn("stock adjustment clamped at zero")
	}
	if s.metrics != nil {
		if clamped {
			s.metrics.RecordAdjustment("clamped")
		} else {
			s.metrics.RecordAdjustment("applied")
		}
	}

	return product, nil
}

// SetStock выставляет абсолютное значение остатка.
func (s *Service) SetStock(productID string, quantity int32) (domain.Product, error) {
	if quantity < 0 {
		return domain.Product{}, domain.ErrProductStockNegative
	}

	product, err := s.products.Get(productID)
	if err != nil {
		return domain.Product{}, err
	}

	product.Stock = quantity
	product.UpdatedAt = time.Now().UTC()
	if err := s.products.Save(product); err != nil {
		return domain.Product{}, fmt.Errorf("save product stock: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": productID,
		"new_stock":  quantity,
	}).Info("stock updated")

	return product, nil
}

// CheckStock сообщает, хватает ли остатка под требуемое количество.
func (s *Service) CheckStock(productID string, required int32) (bool, error) {
	product, err := s.products.Get(productID)
	if err != nil {
		return false, err
	}
	return product.Stock >= required, nil
}

// LowStockProducts возвращает активные товары с остатком в интервале (0, threshold].
func (s *Service) LowStockProducts(threshold int32) ([]domain.Product, error) {
	if threshold <= 0 {
		threshold = 10
	}

	products, _, err := s.products.List(domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	result := make([]domain.Product, 0)
	for _, product := range products {
		if product.Stock > 0 && product.Stock <= threshold {
			result = append(result, product)
		}
	}
	return result, nil
}

var _ domain.StockAdjuster = (*Service)(nil)
