package checkout_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/checkout"
	"github.com/vladislavdragonenkov/shop/internal/service/inventory"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

type fixture struct {
	orders   domain.OrderRepository
	carts    domain.CartRepository
	products domain.ProductRepository
	outbox   *stubOutbox
	svc      *checkout.Service
}

type stubOutbox struct {
	messages []domain.OutboxMessage
}

func (s *stubOutbox) Enqueue(msg domain.OutboxMessage) (domain.OutboxMessage, error) {
	s.messages = append(s.messages, msg)
	return msg, nil
}
func (s *stubOutbox) PullPending(int) ([]domain.OutboxMessage, error) { return nil, nil }
func (s *stubOutbox) Stats() (domain.OutboxStats, error)             { return domain.OutboxStats{}, nil }
func (s *stubOutbox) MarkSent(string) error                          { return nil }
func (s *stubOutbox) MarkFailed(string) error                        { return nil }

func newFixture(t *testing.T, stock int32) *fixture {
	t.Helper()

	products := memory.NewProductRepository()
	err := products.Create(domain.Product{
		ID:        "product-1",
		Name:      "Товар",
		Price:     decimal.RequireFromString("10.00"),
		Stock:     stock,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed product failed: %v", err)
	}

	orders := memory.NewOrderRepository()
	carts := memory.NewCartRepository()
	outbox := &stubOutbox{}
	svc := checkout.NewServiceWithoutMetrics(
		orders, carts,
		inventory.NewServiceWithoutMetrics(products, nil),
		outbox, memory.NewTimelineRepository(), nil,
	)

	return &fixture{orders: orders, carts: carts, products: products, outbox: outbox, svc: svc}
}

func placeInput(qty int32, price string) checkout.PlaceOrderInput {
	return checkout.PlaceOrderInput{
		Items: []checkout.OrderItemInput{
			{ProductID: "product-1", Quantity: qty, Price: decimal.RequireFromString(price)},
		},
		ShippingAddress: domain.ShippingAddress{
			Street: "Ленина 1", City: "Москва", State: "МО", ZipCode: "101000", Country: "RU",
		},
		PaymentMethod: domain.PaymentMethodCreditCard,
	}
}

func TestPlaceOrder_HappyPath(t *testing.T) {
	f := newFixture(t, 10)
	if err := f.carts.Save(domain.Cart{UserID: "user-1"}); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}

	order, err := f.svc.PlaceOrder("user-1", placeInput(2, "10.00"))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	if !order.ItemsPrice.Equal(decimal.RequireFromString("20.00")) {
		t.Fatalf("items price: expected 20.00, got %s", order.ItemsPrice)
	}
	if !order.TaxPrice.Equal(decimal.RequireFromString("3.00")) {
		t.Fatalf("tax price: expected 3.00, got %s", order.TaxPrice)
	}
	if !order.ShippingPrice.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("shipping price: expected 10, got %s", order.ShippingPrice)
	}
	if !order.TotalPrice.Equal(decimal.RequireFromString("33.00")) {
		t.Fatalf("total price: expected 33.00, got %s", order.TotalPrice)
	}
	if order.IsPaid {
		t.Fatal("new order must be unpaid")
	}

	// Заказ сохранён.
	stored, err := f.orders.Get(order.ID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if stored.Status() != domain.OrderStatusCreated {
		t.Fatalf("expected created status, got %s", stored.Status())
	}

	// Остаток списан.
	product, err := f.products.Get("product-1")
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", product.Stock)
	}

	// Корзина очищена.
	if _, err := f.carts.Get("user-1"); !errors.Is(err, domain.ErrCartNotFound) {
		t.Fatalf("expected cart to be cleared, got %v", err)
	}

	// Событие заказа в outbox.
	if len(f.outbox.messages) != 1 || f.outbox.messages[0].EventType != "OrderCreated" {
		t.Fatalf("expected one OrderCreated event, got %v", f.outbox.messages)
	}
}

func TestPlaceOrder_FreeShippingOverThreshold(t *testing.T) {
	f := newFixture(t, 100)

	order, err := f.svc.PlaceOrder("user-1", placeInput(11, "10.00"))
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	if !order.ShippingPrice.IsZero() {
		t.Fatalf("expected free shipping, got %s", order.ShippingPrice)
	}
	// 110 + 16.50 + 0
	if !order.TotalPrice.Equal(decimal.RequireFromString("126.50")) {
		t.Fatalf("total price: expected 126.50, got %s", order.TotalPrice)
	}
}

func TestPlaceOrder_MissingProductSkipped(t *testing.T) {
	f := newFixture(t, 10)

	input := placeInput(2, "10.00")
	input.Items = append(input.Items, checkout.OrderItemInput{
		ProductID: "ghost", Quantity: 1, Price: decimal.RequireFromString("5.00"),
	})

	order, err := f.svc.PlaceOrder("user-1", input)
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}

	// Отсутствующий товар не срывает оформление, его цена остаётся в сумме.
	if !order.ItemsPrice.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("items price: expected 25.00, got %s", order.ItemsPrice)
	}
	if _, err := f.orders.Get(order.ID); err != nil {
		t.Fatalf("order not persisted: %v", err)
	}

	product, _ := f.products.Get("product-1")
	if product.Stock != 8 {
		t.Fatalf("expected stock 8, got %d", product.Stock)
	}
}

func TestPlaceOrder_StockClampsToZero(t *testing.T) {
	f := newFixture(t, 5)

	if _, err := f.svc.PlaceOrder("user-1", placeInput(4, "10.00")); err != nil {
		t.Fatalf("first order failed: %v", err)
	}
	// Второй заказ списывает больше остатка: остаток прижимается к нулю.
	if _, err := f.svc.PlaceOrder("user-2", placeInput(4, "10.00")); err != nil {
		t.Fatalf("second order failed: %v", err)
	}

	product, _ := f.products.Get("product-1")
	if product.Stock != 0 {
		t.Fatalf("expected clamped stock 0, got %d", product.Stock)
	}
}

func TestPlaceOrder_ValidationRejected(t *testing.T) {
	f := newFixture(t, 10)

	input := placeInput(0, "10.00")
	_, err := f.svc.PlaceOrder("user-1", input)
	if !errors.Is(err, domain.ErrItemQuantityInvalid) {
		t.Fatalf("expected quantity violation, got %v", err)
	}

	input = placeInput(1, "10.00")
	input.PaymentMethod = "cash"
	if _, err := f.svc.PlaceOrder("user-1", input); !errors.Is(err, domain.ErrPaymentMethodInvalid) {
		t.Fatalf("expected payment method violation, got %v", err)
	}

	if _, err := f.svc.PlaceOrder("", placeInput(1, "10.00")); !errors.Is(err, domain.ErrUserIDRequired) {
		t.Fatalf("expected user violation, got %v", err)
	}
}

type failingAdjuster struct{}

func (failingAdjuster) AdjustStock(string, int32) (domain.Product, error) {
	return domain.Product{}, errors.New("storage down")
}

func TestPlaceOrder_StockFailureKeepsOrder(t *testing.T) {
	orders := memory.NewOrderRepository()
	carts := memory.NewCartRepository()
	if err := carts.Save(domain.Cart{UserID: "user-1"}); err != nil {
		t.Fatalf("seed cart failed: %v", err)
	}
	svc := checkout.NewServiceWithoutMetrics(
		orders, carts, failingAdjuster{}, &stubOutbox{}, memory.NewTimelineRepository(), nil,
	)

	_, err := svc.PlaceOrder("user-1", placeInput(1, "10.00"))
	if err == nil {
		t.Fatal("expected error from stock adjustment")
	}

	// Заказ не отзывается, но корзина остаётся нетронутой.
	persisted, _, listErr := orders.ListByUser("user-1", 1, 10)
	if listErr != nil {
		t.Fatalf("list failed: %v", listErr)
	}
	if len(persisted) != 1 {
		t.Fatalf("expected order to remain persisted, got %d", len(persisted))
	}
	if _, err := carts.Get("user-1"); err != nil {
		t.Fatalf("expected cart to remain, got %v", err)
	}
}

type failingCarts struct{}

func (failingCarts) Get(string) (domain.Cart, error) { return domain.Cart{}, domain.ErrCartNotFound }
func (failingCarts) Save(domain.Cart) error          { return nil }
func (failingCarts) Delete(string) error             { return errors.New("redis down") }

func TestPlaceOrder_CartClearFailure(t *testing.T) {
	products := memory.NewProductRepository()
	if err := products.Create(domain.Product{ID: "product-1", Name: "Товар", Price: decimal.New(10, 0), Stock: 10, Active: true}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	orders := memory.NewOrderRepository()
	svc := checkout.NewServiceWithoutMetrics(
		orders, failingCarts{},
		inventory.NewServiceWithoutMetrics(products, nil),
		&stubOutbox{}, memory.NewTimelineRepository(), nil,
	)

	_, err := svc.PlaceOrder("user-1", placeInput(1, "10.00"))
	if err == nil {
		t.Fatal("expected error from cart clear")
	}

	// Заказ и списание остатка уже зафиксированы.
	persisted, _, _ := orders.ListByUser("user-1", 1, 10)
	if len(persisted) != 1 {
		t.Fatalf("expected persisted order, got %d", len(persisted))
	}
	product, _ := products.Get("product-1")
	if product.Stock != 9 {
		t.Fatalf("expected stock 9, got %d", product.Stock)
	}
}

func TestPlaceOrder_NoCartIsFine(t *testing.T) {
	f := newFixture(t, 10)

	// У пользователя нет корзины: удаление идемпотентно, оформление успешно.
	if _, err := f.svc.PlaceOrder("user-1", placeInput(1, "10.00")); err != nil {
		t.Fatalf("place order failed: %v", err)
	}
}
