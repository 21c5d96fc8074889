package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"food-quiz-service/internal/app"
	"food-quiz-service/internal/config"
	"food-quiz-service/internal/infra/memory"
	redisstore "food-quiz-service/internal/infra/redis"
	"food-quiz-service/internal/logging"
	transport "food-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts.cfg)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config) error {
	logger := logging.FromContext(ctx)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	src, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.close()

	var store app.GameRepository
	if src.redis != nil {
		store = redisstore.NewGameStore(src.redis, config.Duration(cfg.Redis.TTL, 10*time.Minute))
	} else {
		store = memory.NewGameStore()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	service := app.NewGameService(store, src.catalog, app.GameOptions{
		GuessRows:    cfg.Quiz.GuessRows,
		AdvanceDelay: config.Duration(cfg.Quiz.AdvanceDelay, time.Second),
		Seed:         cfg.Quiz.Seed,
		Logger:       logger,
		Metrics:      app.NewMetrics(registry),
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/ws", transport.NewWSHandler(service, logger).ServeWS)
	mux.Handle("/image", transport.NewImageHandler(service, src.images, logger))

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("starting quiz service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server...")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
