package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"food-quiz-service/internal/config"
	"food-quiz-service/internal/infra/assets"
	pgcatalog "food-quiz-service/internal/infra/postgres"
	rediscache "food-quiz-service/internal/infra/redis"
	"food-quiz-service/internal/logging"
)

// NewImportCmd copies the dish listing of an assets dir into Postgres.
func NewImportCmd(opts *options) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import dish pictures from the assets dir into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := logging.FromContext(ctx)
			if dir == "" {
				dir = opts.cfg.Catalog.AssetsDir
			}
			if dir == "" {
				return fmt.Errorf("assets dir not configured")
			}

			db, err := openBunDB(opts.cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := migrateDB(ctx, db); err != nil {
				return err
			}

			listing, err := assets.NewDirCatalog(os.DirFS(dir)).Listing(ctx)
			if err != nil {
				return err
			}
			importer := pgcatalog.NewImporter(db)
			total := 0
			for category, dishes := range listing {
				n, err := importer.Import(ctx, category, dishes)
				if err != nil {
					return err
				}
				logger.Info().Str("category", string(category)).Int("dishes", n).Msg("category imported")
				total += n
			}
			if err := invalidateCatalogCache(ctx, opts.cfg); err != nil {
				return fmt.Errorf("invalidate catalog cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d dishes in %d categories\n", total, len(listing))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "assets dir to import (defaults to catalog.assets_dir)")
	return cmd
}

// invalidateCatalogCache drops the Redis listing cache so running servers
// see the imported dishes without waiting for the TTL.
func invalidateCatalogCache(ctx context.Context, cfg config.Config) error {
	if cfg.Redis.Addr == "" {
		return nil
	}
	client := newRedisClient(cfg)
	defer client.Close()
	if err := rediscache.InvalidateCatalog(ctx, client); err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	logger.Info().Msg("catalog cache invalidated")
	return nil
}
