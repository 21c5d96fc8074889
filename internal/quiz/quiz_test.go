package quiz

import (
	"context"
	"fmt"

	"food-quiz-service/internal/domain"
)

type fakeCatalog struct {
	dishes map[domain.Category][]domain.DishID
	errs   map[domain.Category]error
}

func (c *fakeCatalog) Categories(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(c.dishes))
	for cat := range c.dishes {
		out = append(out, cat)
	}
	sortCategories(out)
	return out, nil
}

func (c *fakeCatalog) ListDishes(_ context.Context, category domain.Category) ([]domain.DishID, error) {
	if err, ok := c.errs[category]; ok {
		return nil, err
	}
	return c.dishes[category], nil
}

func makeDishes(category string, n int) []domain.DishID {
	out := make([]domain.DishID, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.DishID(fmt.Sprintf("%s-dish_%02d", category, i)))
	}
	return out
}

func makePool(n int) Pool {
	return Pool{Dishes: makeDishes("Test", n)}
}

func countOf(ids []domain.DishID, id domain.DishID) int {
	n := 0
	for _, d := range ids {
		if d == id {
			n++
		}
	}
	return n
}

func distinct(ids []domain.DishID) bool {
	seen := make(map[domain.DishID]struct{}, len(ids))
	for _, d := range ids {
		if _, ok := seen[d]; ok {
			return false
		}
		seen[d] = struct{}{}
	}
	return true
}
