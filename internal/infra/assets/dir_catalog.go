// Package assets reads the dish catalog from a directory of pictures laid
// out as <category>/<category>-<dish_name>.jpg.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"food-quiz-service/internal/domain"
)

const imageExt = ".jpg"

// DirCatalog lists categories and dishes straight from the filesystem.
type DirCatalog struct {
	fsys fs.FS
}

func NewDirCatalog(fsys fs.FS) *DirCatalog {
	return &DirCatalog{fsys: fsys}
}

func (c *DirCatalog) LoadCategories(_ context.Context) ([]domain.Category, error) {
	entries, err := fs.ReadDir(c.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read assets: %w", err)
	}
	var out []domain.Category
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		category := domain.Category(e.Name())
		if err := category.Validate(); err != nil {
			return nil, err
		}
		out = append(out, category)
	}
	return out, nil
}

func (c *DirCatalog) LoadDishes(_ context.Context, category domain.Category) ([]domain.DishID, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(c.fsys, string(category))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCategory, category)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", category, err)
	}

	var out []domain.DishID
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != imageExt {
			continue
		}
		id, err := domain.ParseDishID(strings.TrimSuffix(name, imageExt))
		if err != nil {
			return nil, err
		}
		if id.Category() != category {
			return nil, fmt.Errorf("%w: %s stored under %s", domain.ErrInvalidDishID, name, category)
		}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Listing returns every category with its dishes.
func (c *DirCatalog) Listing(ctx context.Context) (map[domain.Category][]domain.DishID, error) {
	categories, err := c.LoadCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Category][]domain.DishID, len(categories))
	for _, category := range categories {
		dishes, err := c.LoadDishes(ctx, category)
		if err != nil {
			return nil, err
		}
		out[category] = dishes
	}
	return out, nil
}
