package cli

import (
	"context"
	"io/fs"
	"os"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"food-quiz-service/internal/config"
	"food-quiz-service/internal/infra/assets"
	"food-quiz-service/internal/infra/memory"
	pgcatalog "food-quiz-service/internal/infra/postgres"
	rediscache "food-quiz-service/internal/infra/redis"
	"food-quiz-service/internal/logging"
	"food-quiz-service/internal/quiz"
)

// catalogSource is the catalog picked from config with its picture store.
type catalogSource struct {
	catalog quiz.Catalog
	// images is nil when no assets dir is configured.
	images fs.FS
	redis  *redis.Client
	close  func()
}

// openCatalog picks the dish source: the assets dir, else Postgres, else
// the built-in sample menu. Listings are cached in Redis when configured,
// in memory otherwise.
func openCatalog(ctx context.Context, cfg config.Config) (*catalogSource, error) {
	logger := logging.FromContext(ctx)
	src := &catalogSource{close: func() {}}

	var loader memory.CatalogLoader
	switch {
	case cfg.Catalog.AssetsDir != "":
		src.images = os.DirFS(cfg.Catalog.AssetsDir)
		loader = assets.NewDirCatalog(src.images)
		logger.Info().Str("dir", cfg.Catalog.AssetsDir).Msg("catalog from assets")
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		src.close = pool.Close
		loader = pgcatalog.NewDishLoader(pool)
		logger.Info().Msg("catalog from postgres")
	default:
		loader = memory.NewStaticCatalogLoader(sampleCatalog())
		logger.Info().Msg("catalog from built-in sample menu")
	}

	ttl := config.Duration(cfg.Catalog.TTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		src.redis = newRedisClient(cfg)
		closeLoader := src.close
		src.close = func() {
			_ = src.redis.Close()
			closeLoader()
		}
		src.catalog = rediscache.NewCatalogRepository(src.redis, loader, ttl)
		return src, nil
	}
	src.catalog = memory.NewCatalogRepository(loader, ttl)
	return src, nil
}

func newRedisClient(cfg config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
