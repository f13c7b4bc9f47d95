package catalog_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/catalog"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

func newCatalog(t *testing.T) *catalog.Service {
	t.Helper()
	return catalog.NewService(memory.NewProductRepository(), nil)
}

func TestCreateAndGet(t *testing.T) {
	svc := newCatalog(t)

	created, err := svc.Create(domain.Product{
		Name:     "Чайник",
		Category: "kitchen",
		Price:    decimal.RequireFromString("25.00"),
		Stock:    3,
		Active:   true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps to be set")
	}

	got, err := svc.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "Чайник" {
		t.Fatalf("unexpected product: %+v", got)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := newCatalog(t)

	_, err := svc.Create(domain.Product{
		Name:  "",
		Price: decimal.RequireFromString("-1"),
		Stock: -5,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []error{
		domain.ErrProductNameRequired,
		domain.ErrProductPriceNegative,
		domain.ErrProductStockNegative,
	} {
		if !errors.Is(err, want) {
			t.Fatalf("expected %v in joined error, got %v", want, err)
		}
	}
}

func TestList_Pagination(t *testing.T) {
	svc := newCatalog(t)
	for i := 0; i < 25; i++ {
		_, err := svc.Create(domain.Product{
			Name:   fmt.Sprintf("Товар %02d", i),
			Price:  decimal.New(int64(i+1), 0),
			Stock:  1,
			Active: true,
		})
		if err != nil {
			t.Fatalf("seed %d failed: %v", i, err)
		}
	}

	// Нулевые page/pageSize уходят в значения по умолчанию.
	result, err := svc.List(domain.ProductFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Page != 1 || len(result.Products) != 10 {
		t.Fatalf("expected default page of 10, got page=%d len=%d", result.Page, len(result.Products))
	}
	if result.Total != 25 || result.Pages != 3 {
		t.Fatalf("expected total=25 pages=3, got total=%d pages=%d", result.Total, result.Pages)
	}

	result, err = svc.List(domain.ProductFilter{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("list page 3 failed: %v", err)
	}
	if len(result.Products) != 5 {
		t.Fatalf("expected 5 products on the last page, got %d", len(result.Products))
	}
}

func TestUpdate(t *testing.T) {
	svc := newCatalog(t)
	created, err := svc.Create(domain.Product{
		Name:   "Лампа",
		Price:  decimal.RequireFromString("40.00"),
		Stock:  2,
		Active: true,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	created.Name = "Лампа настольная"
	created.Price = decimal.RequireFromString("45.00")
	created.Active = false

	updated, err := svc.Update(created)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Лампа настольная" || updated.Active {
		t.Fatalf("unexpected product after update: %+v", updated)
	}
	if !updated.UpdatedAt.After(created.CreatedAt) {
		t.Fatal("expected UpdatedAt to advance")
	}

	created.Price = decimal.RequireFromString("-1")
	if _, err := svc.Update(created); !errors.Is(err, domain.ErrProductPriceNegative) {
		t.Fatalf("expected ErrProductPriceNegative, got %v", err)
	}

	created.ID = "ghost"
	created.Price = decimal.RequireFromString("45.00")
	if _, err := svc.Update(created); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newCatalog(t)
	created, err := svc.Create(domain.Product{
		Name:  "Кружка",
		Price: decimal.RequireFromString("5.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := svc.Delete(created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
	if err := svc.Delete(created.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on second delete, got %v", err)
	}
}
