package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// Create сохраняет новый товар.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Сохраняем копию, чтобы избежать непредсказуемых мутаций извне.
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// List возвращает страницу товаров по фильтру и общее число подходящих записей.
func (r *productRepositoryInMemory) List(filter domain.ProductFilter) ([]domain.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if !matchesFilter(product, filter) {
			continue
		}
		result = append(result, product)
	}

	sortProducts(result, filter)
	total := len(result)

	page, pageSize := filter.Page, filter.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize > 0 {
		offset := (page - 1) * pageSize
		if offset >= len(result) {
			result = nil
		} else {
			end := offset + pageSize
			if end > len(result) {
				end = len(result)
			}
			result = result[offset:end]
		}
	}

	return result, total, nil
}

// Save перезаписывает товар целиком.
func (r *productRepositoryInMemory) Save(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[product.ID]; !ok {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

// Delete удаляет товар.
func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

func matchesFilter(product domain.Product, filter domain.ProductFilter) bool {
	if filter.ActiveOnly && !product.Active {
		return false
	}
	if filter.Category != "" && product.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(product.Name), needle) &&
			!strings.Contains(strings.ToLower(product.Description), needle) {
			return false
		}
	}
	if filter.MinPrice != nil && product.Price.LessThan(*filter.MinPrice) {
		return false
	}
	if filter.MaxPrice != nil && product.Price.GreaterThan(*filter.MaxPrice) {
		return false
	}
	return true
}

func sortProducts(products []domain.Product, filter domain.ProductFilter) {
	less := func(a, b domain.Product) bool {
		switch filter.SortBy {
		case "name":
			return a.Name < b.Name
		case "price":
			return a.Price.LessThan(b.Price)
		case "rating":
			return a.Rating < b.Rating
		case "updated_at":
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		}
	}

	sort.Slice(products, func(i, j int) bool {
		if filter.SortDesc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
