package quiz

import (
	"fmt"
	"sort"

	"food-quiz-service/internal/domain"
)

// CategorySelector tracks which catalog categories take part in the quiz.
// It is not safe for concurrent use.
type CategorySelector struct {
	enabled map[domain.Category]bool
}

// NewCategorySelector enables every category in categories.
func NewCategorySelector(categories []domain.Category) *CategorySelector {
	enabled := make(map[domain.Category]bool, len(categories))
	for _, c := range categories {
		enabled[c] = true
	}
	return &CategorySelector{enabled: enabled}
}

// SetEnabled includes or excludes a category. Unknown categories are
// rejected with domain.ErrUnknownCategory and leave the selection as is.
func (s *CategorySelector) SetEnabled(category domain.Category, enabled bool) error {
	if !s.Has(category) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, string(category))
	}
	s.enabled[category] = enabled
	return nil
}

// Has reports whether category is known, enabled or not.
func (s *CategorySelector) Has(category domain.Category) bool {
	_, ok := s.enabled[category]
	return ok
}

// IsEnabled reports whether category is known and enabled.
func (s *CategorySelector) IsEnabled(category domain.Category) bool {
	return s.enabled[category]
}

// Enabled returns the enabled categories in sorted order.
func (s *CategorySelector) Enabled() []domain.Category {
	out := make([]domain.Category, 0, len(s.enabled))
	for c, on := range s.enabled {
		if on {
			out = append(out, c)
		}
	}
	sortCategories(out)
	return out
}

// Categories returns every known category in sorted order.
func (s *CategorySelector) Categories() []domain.Category {
	out := make([]domain.Category, 0, len(s.enabled))
	for c := range s.enabled {
		out = append(out, c)
	}
	sortCategories(out)
	return out
}

func sortCategories(cs []domain.Category) {
	sort.Slice(cs, func(i, j int) bool { return cs[i] < cs[j] })
}
