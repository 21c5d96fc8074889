package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"food-quiz-service/internal/config"
	"food-quiz-service/internal/logging"
)

const appName = "food-quiz-service"

// options carries flag values and the loaded configuration to subcommands.
type options struct {
	configPath string
	port       string
	cfg        config.Config
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = "config/config.yaml"
	}
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "food-quiz",
		Short:        "Food picture quiz: name the dish in the photo",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.port, "port", "", "port to listen on (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	cmd.AddCommand(NewImportCmd(opts))
	cmd.AddCommand(NewPlayCmd(opts))
	return cmd
}

// load reads .env outside production, then the config file and environment,
// and stores a logger in the command context.
func (o *options) load(cmd *cobra.Command) error {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	o.cfg = cfg

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), appName, cfg.Log.Env, cfg.Log.Level)
	cmd.SetContext(logging.IntoContext(cmd.Context(), logger))
	return nil
}
