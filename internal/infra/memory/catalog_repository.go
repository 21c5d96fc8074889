package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"food-quiz-service/internal/domain"
)

// CatalogLoader fetches dish listings from a backing store (assets dir, Postgres, ...).
type CatalogLoader interface {
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	LoadDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error)
}

// CatalogRepository caches listings with TTL to avoid repeated loads and
// implements quiz.Catalog.
type CatalogRepository struct {
	loader CatalogLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu         sync.Mutex
	rnd        *rand.Rand
	categories cachedEntry[[]domain.Category]
	dishes     map[domain.Category]cachedEntry[[]domain.DishID]
}

type cachedEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func NewCatalogRepository(loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		dishes: make(map[domain.Category]cachedEntry[[]domain.DishID]),
	}
}

func (r *CatalogRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	if entry := r.categories; entry.expiresAt.After(r.clock()) {
		r.mu.Unlock()
		return entry.value, nil
	}
	r.mu.Unlock()

	result, err, _ := r.sf.Do("categories", func() (interface{}, error) {
		categories, err := r.loader.LoadCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: categories: %w", domain.ErrCatalogUnavailable, err)
		}
		for _, c := range categories {
			if err := c.Validate(); err != nil {
				return nil, err
			}
		}
		sorted := append([]domain.Category(nil), categories...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		r.mu.Lock()
		r.categories = cachedEntry[[]domain.Category]{value: sorted, expiresAt: r.clock().Add(r.ttlWithJitterLocked())}
		r.mu.Unlock()
		return sorted, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (r *CatalogRepository) ListDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error) {
	r.mu.Lock()
	if entry, ok := r.dishes[category]; ok && entry.expiresAt.After(r.clock()) {
		r.mu.Unlock()
		return entry.value, nil
	}
	r.mu.Unlock()

	result, err, _ := r.sf.Do("dishes:"+string(category), func() (interface{}, error) {
		dishes, err := r.loader.LoadDishes(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, category, err)
		}
		if err := domain.ValidateListing(category, dishes); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
		}

		r.mu.Lock()
		r.dishes[category] = cachedEntry[[]domain.DishID]{value: dishes, expiresAt: r.clock().Add(r.ttlWithJitterLocked())}
		r.mu.Unlock()
		return dishes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.DishID), nil
}

// StaticCatalogLoader is a loader backed by an in-memory map (useful for tests/demos).
type StaticCatalogLoader struct {
	dishes map[domain.Category][]domain.DishID
}

func NewStaticCatalogLoader(dishes map[domain.Category][]domain.DishID) *StaticCatalogLoader {
	return &StaticCatalogLoader{dishes: dishes}
}

func (l *StaticCatalogLoader) LoadCategories(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(l.dishes))
	for c := range l.dishes {
		out = append(out, c)
	}
	return out, nil
}

func (l *StaticCatalogLoader) LoadDishes(_ context.Context, category domain.Category) ([]domain.DishID, error) {
	dishes, ok := l.dishes[category]
	if !ok {
		return nil, domain.ErrUnknownCategory
	}
	return dishes, nil
}

func (r *CatalogRepository) ttlWithJitterLocked() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
