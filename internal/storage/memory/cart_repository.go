package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// cartRepositoryInMemory — простая in-memory реализация CartRepository.
type cartRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Cart
}

// NewCartRepository возвращает in-memory репозиторий корзин.
func NewCartRepository() domain.CartRepository {
	return &cartRepositoryInMemory{
		items: make(map[string]domain.Cart),
	}
}

// Get возвращает корзину пользователя или ErrCartNotFound.
func (r *cartRepositoryInMemory) Get(userID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.items[userID]
	if !ok {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	return cart, nil
}

// Save сохраняет корзину целиком (insert или замена).
func (r *cartRepositoryInMemory) Save(cart domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[cart.UserID] = cart
	return nil
}

// Delete удаляет корзину. Отсутствие корзины — не ошибка (идемпотентность).
func (r *cartRepositoryInMemory) Delete(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, userID)
	return nil
}

var _ domain.CartRepository = (*cartRepositoryInMemory)(nil)
