package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"food-quiz-service/internal/domain"
)

func TestCatalogRepositoryCaches(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)

	if _, err := repo.ListDishes(context.Background(), "Italian"); err != nil {
		t.Fatalf("list dishes: %v", err)
	}
	if loader.dishCalls != 1 {
		t.Fatalf("expected loader once, got %d", loader.dishCalls)
	}

	dishes, err := repo.ListDishes(context.Background(), "Italian")
	if err != nil {
		t.Fatalf("list dishes 2: %v", err)
	}
	if loader.dishCalls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.dishCalls)
	}
	if len(dishes) != 2 {
		t.Fatalf("expected 2 dishes, got %d", len(dishes))
	}
}

func TestCatalogRepositoryExpires(t *testing.T) {
	loader := &countingLoader{CatalogLoader: NewStaticCatalogLoader(sampleCatalog())}
	repo := NewCatalogRepository(loader, time.Minute)
	now := time.Now()
	repo.clock = func() time.Time { return now }

	if _, err := repo.Categories(context.Background()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	now = now.Add(2 * time.Minute)
	categories, err := repo.Categories(context.Background())
	if err != nil {
		t.Fatalf("categories 2: %v", err)
	}
	if loader.categoryCalls != 2 {
		t.Fatalf("expected reload after ttl, got %d calls", loader.categoryCalls)
	}
	if len(categories) != 2 || categories[0] != "British" || categories[1] != "Italian" {
		t.Fatalf("expected sorted categories, got %v", categories)
	}
}

func TestCatalogRepositoryWrapsLoaderErrors(t *testing.T) {
	repo := NewCatalogRepository(NewStaticCatalogLoader(sampleCatalog()), time.Minute)

	_, err := repo.ListDishes(context.Background(), "Thai")
	if !errors.Is(err, domain.ErrCatalogUnavailable) {
		t.Fatalf("expected catalog unavailable, got %v", err)
	}
}

func TestCatalogRepositoryRejectsForeignDishes(t *testing.T) {
	repo := NewCatalogRepository(NewStaticCatalogLoader(map[domain.Category][]domain.DishID{
		"Italian": {"Italian-lasagne", "British-scone"},
	}), time.Minute)

	_, err := repo.ListDishes(context.Background(), "Italian")
	if !errors.Is(err, domain.ErrCatalogUnavailable) || !errors.Is(err, domain.ErrInvalidDishID) {
		t.Fatalf("expected invalid listing, got %v", err)
	}
}

type countingLoader struct {
	CatalogLoader
	categoryCalls int
	dishCalls     int
}

func (l *countingLoader) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	l.categoryCalls++
	return l.CatalogLoader.LoadCategories(ctx)
}

func (l *countingLoader) LoadDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error) {
	l.dishCalls++
	return l.CatalogLoader.LoadDishes(ctx, category)
}

func sampleCatalog() map[domain.Category][]domain.DishID {
	return map[domain.Category][]domain.DishID{
		"Italian": {"Italian-lasagne", "Italian-tiramisu"},
		"British": {"British-fish_and_chips"},
	}
}
