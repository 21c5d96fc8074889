package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"food-quiz-service/internal/domain"
)

type dishRow struct {
	bun.BaseModel `bun:"table:dishes"`

	ID        string `bun:"id,pk"`
	Category  string `bun:"category,notnull"`
	ImagePath string `bun:"image_path"`
}

// Importer upserts dish listings into the dishes table.
type Importer struct {
	db *bun.DB
}

func NewImporter(db *bun.DB) *Importer {
	return &Importer{db: db}
}

// Import stores the listing of category. It returns the number of rows written.
func (i *Importer) Import(ctx context.Context, category domain.Category, dishes []domain.DishID) (int, error) {
	if err := domain.ValidateListing(category, dishes); err != nil {
		return 0, err
	}
	if len(dishes) == 0 {
		return 0, nil
	}
	rows := make([]dishRow, 0, len(dishes))
	for _, d := range dishes {
		rows = append(rows, dishRow{ID: string(d), Category: string(category), ImagePath: d.ImagePath()})
	}
	_, err := i.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("category = EXCLUDED.category").
		Set("image_path = EXCLUDED.image_path").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", category, err)
	}
	return len(rows), nil
}
