package domain

import "github.com/shopspring/decimal"

// ProductFilter — условия выборки товаров каталога.
type ProductFilter struct {
	Category   string
	Search     string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	ActiveOnly bool
	// SortBy — одно из name|price|created_at|updated_at. Пустое значение — created_at.
	SortBy    string
	SortDesc  bool
	Page      int
	PageSize  int
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	// Create сохраняет новый товар.
	Create(product Product) error
	// Get возвращает товар по идентификатору или ErrProductNotFound.
	Get(id string) (Product, error)
	// List возвращает товары по фильтру и общее количество подходящих записей.
	List(filter ProductFilter) ([]Product, int, error)
	// Save перезаписывает товар целиком. ErrProductNotFound, если записи нет.
	Save(product Product) error
	// Delete удаляет товар. ErrProductNotFound, если записи нет.
	Delete(id string) error
}

// CartRepository описывает требования к хранилищу корзин.
// Корзина ключуется по userId: у пользователя не больше одной корзины.
type CartRepository interface {
	// Get возвращает корзину пользователя или ErrCartNotFound.
	Get(userID string) (Cart, error)
	// Save сохраняет корзину целиком (insert или замена).
	Save(cart Cart) error
	// Delete удаляет корзину. Отсутствие корзины ошибкой не считается.
	Delete(userID string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// ListByUser возвращает страницу заказов пользователя (новые первыми)
	// и общее количество его заказов.
	ListByUser(userID string, page, pageSize int) ([]Order, int, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// Delete удаляет заказ. ErrOrderNotFound, если записи нет.
	Delete(id string) error
}

// PaymentRepository описывает требования к хранилищу платежей.
type PaymentRepository interface {
	Create(payment Payment) error
	Get(id string) (Payment, error)
	// GetByOrderID возвращает платёж по заказу или ErrPaymentNotFound.
	GetByOrderID(orderID string) (Payment, error)
	Save(payment Payment) error
}
