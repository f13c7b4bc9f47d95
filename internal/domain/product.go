package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product описывает товар каталога.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	// Price — цена за единицу. Decimal, чтобы не терять копейки на float-арифметике.
	Price decimal.Decimal
	// Stock — доступный остаток. Никогда не уходит ниже нуля (clamping при списании).
	Stock      int32
	Images     []string
	Tags       []string
	Active     bool
	Rating     float64
	NumReviews int32
	SellerID   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate проверяет базовые инварианты товара и возвращает список замечаний.
func (p *Product) Validate() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.Price.IsNegative() {
		errs = append(errs, ErrProductPriceNegative)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrProductStockNegative)
	}

	return errs
}
