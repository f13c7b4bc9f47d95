package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
)

func TestOrderRepository_PostgresCreateGetListAndSave(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	order1 := sampleOrder("user-1", now.Add(-2*time.Minute))
	order2 := sampleOrder("user-1", now.Add(-time.Minute))

	if err := repo.Create(order1); err != nil {
		t.Fatalf("create order1: %v", err)
	}
	if err := repo.Create(order2); err != nil {
		t.Fatalf("create order2: %v", err)
	}

	got, err := repo.Get(order1.ID)
	if err != nil {
		t.Fatalf("get order1: %v", err)
	}
	if got.ID != order1.ID || got.UserID != order1.UserID {
		t.Fatalf("unexpected order payload: %+v", got)
	}
	if !got.TotalPrice.Equal(order1.TotalPrice) {
		t.Fatalf("unexpected total: got=%s want=%s", got.TotalPrice, order1.TotalPrice)
	}
	if len(got.Items) != len(order1.Items) {
		t.Fatalf("unexpected items count: got=%d want=%d", len(got.Items), len(order1.Items))
	}
	if !got.Items[0].Price.Equal(order1.Items[0].Price) {
		t.Fatalf("unexpected item price: got=%s want=%s", got.Items[0].Price, order1.Items[0].Price)
	}

	// Первая страница отдаёт самый свежий заказ.
	page, total, err := repo.ListByUser("user-1", 1, 1)
	if err != nil {
		t.Fatalf("list by user page 1: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected total=2, got %d", total)
	}
	if len(page) != 1 || page[0].ID != order2.ID {
		t.Fatalf("unexpected first page: %+v", page)
	}

	rest, _, err := repo.ListByUser("user-1", 2, 1)
	if err != nil {
		t.Fatalf("list by user page 2: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != order1.ID {
		t.Fatalf("unexpected second page: %+v", rest)
	}

	paidAt := now
	got.IsPaid = true
	got.PaidAt = &paidAt
	got.PaymentResult = &domain.PaymentResult{
		ID:           "txn_123",
		Status:       "completed",
		UpdateTime:   now.Format(time.RFC3339),
		EmailAddress: "buyer@example.com",
	}
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(got); err != nil {
		t.Fatalf("save order: %v", err)
	}

	updated, err := repo.Get(order1.ID)
	if err != nil {
		t.Fatalf("get updated order: %v", err)
	}
	if !updated.IsPaid || updated.PaidAt == nil {
		t.Fatalf("expected paid order after save: %+v", updated)
	}
	if updated.PaymentResult == nil || updated.PaymentResult.ID != "txn_123" {
		t.Fatalf("payment result did not survive round-trip: %+v", updated.PaymentResult)
	}
	if updated.Version != got.Version+1 {
		t.Fatalf("unexpected version after save: got=%d want=%d", updated.Version, got.Version+1)
	}
}

func TestOrderRepository_PostgresErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	base := sampleOrder("user-2", now)

	if _, err := repo.Get(uuid.NewString()); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}

	if err := repo.Save(base); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound on save missing, got %v", err)
	}

	if err := repo.Create(base); err != nil {
		t.Fatalf("create base order: %v", err)
	}
	if err := repo.Create(base); !errors.Is(err, domain.ErrOrderExists) {
		t.Fatalf("expected ErrOrderExists on duplicate create, got %v", err)
	}

	stale := base
	stale.IsPaid = true
	stale.UpdatedAt = now.Add(time.Minute)
	stale.Version = 42
	if err := repo.Save(stale); !errors.Is(err, domain.ErrOrderVersionConflict) {
		t.Fatalf("expected ErrOrderVersionConflict on stale save, got %v", err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatal("expected unique violation for code 23505")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatal("unexpected unique violation for foreign key code")
	}
	if isUniqueViolation(errors.New("plain error")) {
		t.Fatal("plain error must not be unique violation")
	}
}

func sampleOrder(userID string, createdAt time.Time) domain.Order {
	itemsPrice := decimal.RequireFromString("20.00")
	taxPrice := decimal.RequireFromString("3.00")
	shippingPrice := decimal.RequireFromString("10.00")

	return domain.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Items: []domain.OrderItem{
			{
				ID:        uuid.NewString(),
				ProductID: uuid.NewString(),
				Quantity:  2,
				Price:     decimal.RequireFromString("10.00"),
				CreatedAt: createdAt,
			},
		},
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    itemsPrice.Add(taxPrice).Add(shippingPrice),
		ShippingAddress: domain.ShippingAddress{
			Street:  "1 Main St",
			City:    "Springfield",
			State:   "IL",
			ZipCode: "62704",
			Country: "US",
		},
		PaymentMethod: domain.PaymentMethodCreditCard,
		Version:       0,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}
