package redis

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"food-quiz-service/internal/domain"
)

// CatalogLoader fetches dish listings from a backing store (assets dir, Postgres, ...).
type CatalogLoader interface {
	LoadCategories(ctx context.Context) ([]domain.Category, error)
	LoadDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error)
}

// CatalogRepository caches listings in Redis and falls back to a loader on cache miss.
// Categories are stored as: RPUSH catalog:categories {category}...
// Dishes are stored as:     RPUSH catalog:{category}:dishes {dishID}...
type CatalogRepository struct {
	client *redis.Client
	loader CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex // guards rnd
	rnd *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) Categories(ctx context.Context) ([]domain.Category, error) {
	key := categoriesKey()
	if cached, err := r.client.LRange(ctx, key, 0, -1).Result(); err == nil && len(cached) > 0 {
		return toCategories(cached), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if cached, err := r.client.LRange(ctx, key, 0, -1).Result(); err == nil && len(cached) > 0 {
			return toCategories(cached), nil
		}

		categories, err := r.loader.LoadCategories(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: categories: %w", domain.ErrCatalogUnavailable, err)
		}
		values := make([]interface{}, 0, len(categories))
		for _, c := range categories {
			if err := c.Validate(); err != nil {
				return nil, err
			}
			values = append(values, string(c))
		}
		sorted := append([]domain.Category(nil), categories...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

		r.store(ctx, key, values)
		return sorted, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Category), nil
}

func (r *CatalogRepository) ListDishes(ctx context.Context, category domain.Category) ([]domain.DishID, error) {
	key := dishesKey(category)
	if cached, err := r.client.LRange(ctx, key, 0, -1).Result(); err == nil && len(cached) > 0 {
		return toDishIDs(cached), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if cached, err := r.client.LRange(ctx, key, 0, -1).Result(); err == nil && len(cached) > 0 {
			return toDishIDs(cached), nil
		}

		dishes, err := r.loader.LoadDishes(ctx, category)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, category, err)
		}
		if err := domain.ValidateListing(category, dishes); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
		}
		values := make([]interface{}, 0, len(dishes))
		for _, d := range dishes {
			values = append(values, string(d))
		}

		r.store(ctx, key, values)
		return dishes, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.DishID), nil
}

// store replaces key with values. Cache writes are best effort.
func (r *CatalogRepository) store(ctx context.Context, key string, values []interface{}) {
	if len(values) == 0 {
		return
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.RPush(ctx, key, values...)
	if ttl := r.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, _ = pipe.Exec(ctx)
}

// InvalidateCatalog drops every cached listing so the next read of any
// CatalogRepository on client goes to its loader.
func InvalidateCatalog(ctx context.Context, client *redis.Client) error {
	var cursor uint64
	for {
		keys, next, err := client.Scan(ctx, cursor, "catalog:*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func categoriesKey() string {
	return "catalog:categories"
}

func dishesKey(category domain.Category) string {
	return "catalog:" + string(category) + ":dishes"
}

func toCategories(values []string) []domain.Category {
	out := make([]domain.Category, 0, len(values))
	for _, v := range values {
		out = append(out, domain.Category(v))
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func toDishIDs(values []string) []domain.DishID {
	out := make([]domain.DishID, 0, len(values))
	for _, v := range values {
		out = append(out, domain.DishID(v))
	}
	return out
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
