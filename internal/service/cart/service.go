package cart

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

// Service реализует операции над корзиной пользователя.
// Total корзины пересчитывается из позиций перед каждым сохранением.
type Service struct {
	carts    domain.CartRepository
	products domain.ProductRepository
	logger   *log.Entry
}

// NewService создаёт сервис корзины.
func NewService(carts domain.CartRepository, products domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "cart")
	}
	return &Service{carts: carts, products: products, logger: logger}
}

// GetCart возвращает корзину пользователя, лениво создавая пустую при первом обращении.
func (s *Service) GetCart(userID string) (domain.Cart, error) {
	cart, err := s.carts.Get(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, domain.ErrCartNotFound) {
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	now := time.Now().UTC()
	cart = domain.Cart{
		UserID:    userID,
		Items:     []domain.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	cart.RecalculateTotal()
	if err := s.carts.Save(cart); err != nil {
		return domain.Cart{}, fmt.Errorf("create empty cart: %w", err)
	}
	return cart, nil
}

// AddToCart добавляет товар в корзину, фиксируя текущую цену каталога.
// Если товар уже в корзине, количества складываются; суммарное количество
// проверяется против остатка.
func (s *Service) AddToCart(userID, productID string, quantity int32) (domain.Cart, error) {
	if quantity <= 0 {
		return domain.Cart{}, domain.ErrItemQuantityInvalid
	}

	product, err := s.products.Get(productID)
	if err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.carts.Get(userID)
	if err != nil {
		if !errors.Is(err, domain.ErrCartNotFound) {
			return domain.Cart{}, fmt.Errorf("get cart: %w", err)
		}
		now := time.Now().UTC()
		cart = domain.Cart{UserID: userID, Items: []domain.CartItem{}, CreatedAt: now, UpdatedAt: now}
	}

	if idx := cart.FindItem(productID); idx >= 0 {
		newQuantity := cart.Items[idx].Quantity + quantity
		if product.Stock < newQuantity {
			return domain.Cart{}, domain.ErrInsufficientStock
		}
		cart.Items[idx].Quantity = newQuantity
	} else {
		if product.Stock < quantity {
			return domain.Cart{}, domain.ErrInsufficientStock
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			// Цена фиксируется в момент добавления и на checkout не перечитывается.
			Price: product.Price,
		})
	}

	return s.saveCart(cart)
}

// UpdateItem меняет количество позиции. Неположительное количество удаляет позицию.
func (s *Service) UpdateItem(userID, productID string, quantity int32) (domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveFromCart(userID, productID)
	}

	cart, err := s.carts.Get(userID)
	if err != nil {
		return domain.Cart{}, err
	}

	product, err := s.products.Get(productID)
	if err != nil {
		return domain.Cart{}, err
	}
	if product.Stock < quantity {
		return domain.Cart{}, domain.ErrInsufficientStock
	}

	idx := cart.FindItem(productID)
	if idx < 0 {
		return domain.Cart{}, domain.ErrCartItemNotFound
	}
	cart.Items[idx].Quantity = quantity

	return s.saveCart(cart)
}

// RemoveFromCart убирает позицию из корзины. Отсутствие позиции — не ошибка.
func (s *Service) RemoveFromCart(userID, productID string) (domain.Cart, error) {
	cart, err := s.carts.Get(userID)
	if err != nil {
		return domain.Cart{}, err
	}

	filtered := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			filtered = append(filtered, item)
		}
	}
	cart.Items = filtered

	return s.saveCart(cart)
}

// ClearCart удаляет корзину пользователя целиком. Идемпотентна:
// повторный вызов или отсутствие корзины ошибкой не являются.
func (s *Service) ClearCart(userID string) error {
	if err := s.carts.Delete(userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (s *Service) saveCart(cart domain.Cart) (domain.Cart, error) {
	cart.RecalculateTotal()
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(cart); err != nil {
		s.logger.WithError(err).WithField("user_id", cart.UserID).Error("failed to save cart")
		return domain.Cart{}, fmt.Errorf("save cart: %w", err)
	}
	return cart, nil
}
