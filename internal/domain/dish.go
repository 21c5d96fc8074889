package domain

import (
	"fmt"
	"strings"
)

// Delimiter separates the category from the dish name inside a DishID.
const Delimiter = "-"

// Category groups dishes, e.g. "Italian" or "South_Indian".
type Category string

// Validate rejects empty names and names containing the DishID delimiter.
func (c Category) Validate() error {
	if c == "" || strings.Contains(string(c), Delimiter) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}
	return nil
}

// DisplayName renders underscores as spaces.
func (c Category) DisplayName() string {
	return strings.ReplaceAll(string(c), "_", " ")
}

// DishID identifies a dish as "<category>-<dish_name>".
type DishID string

// ParseDishID validates raw and returns it as a DishID.
func ParseDishID(raw string) (DishID, error) {
	category, name, ok := strings.Cut(raw, Delimiter)
	if !ok || category == "" || name == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidDishID, raw)
	}
	return DishID(raw), nil
}

// Category returns the text before the first delimiter.
func (id DishID) Category() Category {
	category, _, _ := strings.Cut(string(id), Delimiter)
	return Category(category)
}

// DisplayName returns the text after the first delimiter with underscores
// rendered as spaces.
func (id DishID) DisplayName() string {
	_, name, ok := strings.Cut(string(id), Delimiter)
	if !ok {
		name = string(id)
	}
	return strings.ReplaceAll(name, "_", " ")
}

// ImagePath is the asset path of the dish picture, relative to the assets root.
func (id DishID) ImagePath() string {
	return string(id.Category()) + "/" + string(id) + ".jpg"
}

func (id DishID) String() string {
	return string(id)
}

// ValidateListing checks a category listing as loaded from a catalog
// backend: the category must be valid and every dish must belong to it.
func ValidateListing(category Category, dishes []DishID) error {
	if err := category.Validate(); err != nil {
		return err
	}
	for _, d := range dishes {
		if _, err := ParseDishID(string(d)); err != nil {
			return err
		}
		if d.Category() != category {
			return fmt.Errorf("%w: %s listed under %s", ErrInvalidDishID, d, category)
		}
	}
	return nil
}
