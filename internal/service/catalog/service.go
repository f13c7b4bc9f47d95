package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const defaultPageSize = 10

// maxPageSize ограничивает размер страницы выборки.
const maxPageSize = 100

// ListResult — страница каталога с данными пагинации.
type ListResult struct {
	Products []domain.Product
	Total    int
	Page     int
	Pages    int
}

// Service реализует CRUD-операции каталога товаров.
type Service struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewService создаёт сервис каталога.
func NewService(products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "catalog")
	}
	return &Service{products: products, logger: logger}
}

// Create сохраняет новый товар, присваивая идентификатор и таймстампы.
func (s *Service) Create(product domain.Product) (domain.Product, error) {
	if errs := product.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := s.products.Create(product); err != nil {
		s.logger.WithError(err).Error("failed to create product")
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

// Get возвращает товар по идентификатору.
func (s *Service) Get(id string) (domain.Product, error) {
	return s.products.Get(id)
}

// List возвращает страницу каталога по фильтру.
func (s *Service) List(filter domain.ProductFilter) (ListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	products, total, err := s.products.List(filter)
	if err != nil {
		s.logger.WithError(err).Error("failed to list products")
		return ListResult{}, fmt.Errorf("list products: %w", err)
	}

	pages := (total + filter.PageSize - 1) / filter.PageSize
	return ListResult{
		Products: products,
		Total:    total,
		Page:     filter.Page,
		Pages:    pages,
	}, nil
}

// Update перезаписывает изменяемые поля товара.
func (s *Service) Update(product domain.Product) (domain.Product, error) {
	current, err := s.products.Get(product.ID)
	if err != nil {
		return domain.Product{}, err
	}

	current.Name = product.Name
	current.Description = product.Description
	current.Category = product.Category
	current.Price = product.Price
	current.Stock = product.Stock
	current.Images = product.Images
	current.Tags = product.Tags
	current.Active = product.Active
	current.UpdatedAt = time.Now().UTC()

	if errs := current.Validate(); len(errs) > 0 {
		return domain.Product{}, errors.Join(errs...)
	}

	if err := s.products.Save(current); err != nil {
		s.logger.WithError(err).WithField("product_id", product.ID).Error("failed to update product")
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return current, nil
}

// Delete удаляет товар из каталога.
func (s *Service) Delete(id string) error {
	return s.products.Delete(id)
}
