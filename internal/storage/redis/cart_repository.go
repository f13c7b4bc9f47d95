package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

const (
	cartKeyPrefix  = "cart:"
	defaultCartTTL = 30 * 24 * time.Hour
	opTimeout      = 3 * time.Second
)

// CartRepository хранит корзины в Redis: одна корзина — один JSON-документ
// под ключом cart:<user_id> с TTL. Брошенные корзины истекают сами.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository создаёт репозиторий корзин поверх клиента Redis.
func NewCartRepository(client *redis.Client) *CartRepository {
	return &CartRepository{client: client, ttl: defaultCartTTL}
}

// Get возвращает корзину пользователя. ErrCartNotFound, если ключа нет.
func (r *CartRepository) Get(userID string) (domain.Cart, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Cart{}, domain.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return domain.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	return cart, nil
}

// Save сохраняет корзину целиком, продлевая TTL.
func (r *CartRepository) Save(cart domain.Cart) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(cart.UserID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis save cart: %w", err)
	}
	return nil
}

// Delete удаляет корзину пользователя. Отсутствие ключа ошибкой не считается.
func (r *CartRepository) Delete(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := r.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return cartKeyPrefix + userID
}

var _ domain.CartRepository = (*CartRepository)(nil)
