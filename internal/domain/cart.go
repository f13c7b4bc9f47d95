package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem представляет одну позицию корзины.
type CartItem struct {
	// ProductID — слабая ссылка на товар каталога (без каскадного удаления).
	ProductID string
	// Quantity — количество единиц, всегда > 0.
	Quantity int32
	// Price — цена за единицу, зафиксированная в момент добавления.
	// При checkout она не перечитывается из каталога.
	Price decimal.Decimal
}

// Subtotal возвращает стоимость позиции: quantity × price.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt32(i.Quantity))
}

// Cart — корзина пользователя: staging-область покупок до оформления заказа.
// Создаётся лениво при первом обращении, удаляется целиком после успешного заказа.
type Cart struct {
	UserID string
	Items  []CartItem
	// Total всегда пересчитывается из позиций перед сохранением,
	// самостоятельным источником истины не является.
	Total     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RecalculateTotal пересчитывает Total из позиций. Вызывается перед каждым сохранением.
func (c *Cart) RecalculateTotal() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	c.Total = total
}

// FindItem возвращает индекс позиции с данным товаром или -1.
func (c *Cart) FindItem(productID string) int {
	for idx, item := range c.Items {
		if item.ProductID == productID {
			return idx
		}
	}
	return -1
}
