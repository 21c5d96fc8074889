package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"food-quiz-service/internal/domain"
)

// DishLoader loads the dish catalog from the dishes table.
type DishLoader struct {
	pool *pgxpool.Pool
}

func NewDishLoader(pool *pgxpool.Pool) *DishLoader {
	return &DishLoader{pool: pool}
}

func (l *DishLoader) LoadCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := l.pool.Query(ctx, `SELECT DISTINCT category FROM dishes ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, domain.Category(category))
	}
	return out, rows.Err()
}

func (l *DishLoader) LoadDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error) {
	rows, err := l.pool.Query(ctx, `SELECT id FROM dishes WHERE category=$1 ORDER BY id`, string(category))
	if err != nil {
		return nil, fmt.Errorf("load dishes: %w", err)
	}
	defer rows.Close()

	var out []domain.DishID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan dish: %w", err)
		}
		out = append(out, domain.DishID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}
	return out, nil
}
