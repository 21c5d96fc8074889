package quiz

import (
	"context"
	"errors"

	"food-quiz-service/internal/domain"
)

// Catalog lists the dishes available per category.
type Catalog interface {
	Categories(ctx context.Context) ([]domain.Category, error)
	// ListDishes returns the dishes of one category. Failures wrap
	// domain.ErrCatalogUnavailable.
	ListDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error)
}

// Pool is the set of dishes a quiz draws from.
type Pool struct {
	Dishes []domain.DishID
	// Unavailable lists enabled categories whose listing failed and which
	// therefore contributed nothing.
	Unavailable []domain.Category
}

// Size returns the number of distinct dishes in the pool.
func (p Pool) Size() int {
	return len(p.Dishes)
}

// Contains reports whether id is part of the pool.
func (p Pool) Contains(id domain.DishID) bool {
	for _, d := range p.Dishes {
		if d == id {
			return true
		}
	}
	return false
}

// BuildPool unions the dishes of the enabled categories. A category whose
// catalog listing is unavailable is skipped rather than failing the pool.
func BuildPool(ctx context.Context, catalog Catalog, enabled []domain.Category) (Pool, error) {
	var pool Pool
	seen := make(map[domain.DishID]struct{})
	for _, category := range enabled {
		dishes, err := catalog.ListDishes(ctx, category)
		if err != nil {
			if errors.Is(err, domain.ErrCatalogUnavailable) {
				pool.Unavailable = append(pool.Unavailable, category)
				continue
			}
			return Pool{}, err
		}
		for _, d := range dishes {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			pool.Dishes = append(pool.Dishes, d)
		}
	}
	if len(pool.Dishes) == 0 {
		return pool, domain.ErrEmptyPool
	}
	return pool, nil
}
