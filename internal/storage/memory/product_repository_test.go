package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/storage/memory"
)

func seedProducts(t *testing.T, repo domain.ProductRepository) {
	t.Helper()
	now := time.Now().UTC()
	products := []domain.Product{
		{ID: "p1", Name: "Чайник", Category: "kitchen", Price: decimal.RequireFromString("25.00"), Stock: 3, Active: true, CreatedAt: now},
		{ID: "p2", Name: "Кружка", Category: "kitchen", Price: decimal.RequireFromString("5.00"), Stock: 10, Active: true, CreatedAt: now.Add(time.Minute)},
		{ID: "p3", Name: "Лампа", Category: "home", Price: decimal.RequireFromString("40.00"), Stock: 0, Active: false, CreatedAt: now.Add(2 * time.Minute)},
	}
	for _, p := range products {
		if err := repo.Create(p); err != nil {
			t.Fatalf("create %s failed: %v", p.ID, err)
		}
	}
}

func TestProductRepository_List_Filters(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProducts(t, repo)

	products, total, err := repo.List(domain.ProductFilter{Category: "kitchen"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(products) != 2 {
		t.Fatalf("expected 2 kitchen products, got %d/%d", len(products), total)
	}

	products, _, err = repo.List(domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, p := range products {
		if !p.Active {
			t.Fatalf("inactive product %s leaked into active-only list", p.ID)
		}
	}

	min := decimal.RequireFromString("20.00")
	products, total, err = repo.List(domain.ProductFilter{MinPrice: &min})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 products with price >= 20, got %d", total)
	}
	for _, p := range products {
		if p.Price.LessThan(min) {
			t.Fatalf("product %s below min price", p.ID)
		}
	}
}

func TestProductRepository_List_SearchAndSort(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProducts(t, repo)

	products, total, err := repo.List(domain.ProductFilter{Search: "круж"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || products[0].ID != "p2" {
		t.Fatalf("expected only p2 by search, got %v", products)
	}

	products, _, err = repo.List(domain.ProductFilter{SortBy: "price", SortDesc: true})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if products[0].ID != "p3" {
		t.Fatalf("expected most expensive first, got %s", products[0].ID)
	}
}

func TestProductRepository_List_Pagination(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProducts(t, repo)

	products, total, err := repo.List(domain.ProductFilter{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product on page 2, got %d", len(products))
	}
}

func TestProductRepository_SaveDelete(t *testing.T) {
	repo := memory.NewProductRepository()
	seedProducts(t, repo)

	product, err := repo.Get("p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	product.Stock = 7
	if err := repo.Save(product); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	updated, err := repo.Get("p1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if updated.Stock != 7 {
		t.Fatalf("expected stock 7, got %d", updated.Stock)
	}

	if err := repo.Delete("p1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get("p1"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Save(domain.Product{ID: "missing"}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected not found on save of missing product, got %v", err)
	}
}
