package domain

import "github.com/shopspring/decimal"

var (
	// taxRate — ставка налога, 15% от itemsPrice.
	taxRate = decimal.New(15, -2)
	// freeShippingThreshold — строгий порог бесплатной доставки:
	// ровно 100.00 доставку ещё оплачивает покупатель.
	freeShippingThreshold = decimal.New(100, 0)
	// flatShippingPrice — фиксированная стоимость доставки ниже порога.
	flatShippingPrice = decimal.New(10, 0)
)

// Pricing — расчётные ценовые компоненты заказа.
type Pricing struct {
	ItemsPrice    decimal.Decimal
	TaxPrice      decimal.Decimal
	ShippingPrice decimal.Decimal
	TotalPrice    decimal.Decimal
}

// ComputePricing считает цены заказа по позициям:
// itemsPrice — точная сумма quantity × price без округления;
// taxPrice — 15% от itemsPrice, округление до 2 знаков (half-up);
// shippingPrice — 0 при itemsPrice > 100.00, иначе 10.00;
// totalPrice — сумма трёх компонент.
func ComputePricing(items []OrderItem) Pricing {
	itemsPrice := decimal.Zero
	for _, item := range items {
		itemsPrice = itemsPrice.Add(item.Subtotal())
	}

	taxPrice := itemsPrice.Mul(taxRate).Round(2)

	shippingPrice := flatShippingPrice
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shippingPrice = decimal.Zero
	}

	return Pricing{
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    itemsPrice.Add(taxPrice).Add(shippingPrice),
	}
}
