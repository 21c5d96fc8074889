package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
		Env   string `yaml:"env" env:"APP_ENV"`
	} `yaml:"log"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
		TTL      string `yaml:"ttl" env:"REDIS_TTL"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url" env:"POSTGRES_URL"`
	} `yaml:"postgres"`
	Catalog struct {
		AssetsDir string `yaml:"assets_dir" env:"CATALOG_ASSETS_DIR"`
		TTL       string `yaml:"ttl" env:"CATALOG_TTL"`
	} `yaml:"catalog"`
	Quiz struct {
		GuessRows    int    `yaml:"guess_rows" env:"QUIZ_GUESS_ROWS"`
		AdvanceDelay string `yaml:"advance_delay" env:"QUIZ_ADVANCE_DELAY"`
		Seed         int64  `yaml:"seed" env:"QUIZ_SEED"`
	} `yaml:"quiz"`
}

// Defaults returns the configuration used when neither file nor
// environment set a value.
func Defaults() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"
	cfg.Log.Env = "development"
	cfg.Catalog.TTL = "10m"
	cfg.Quiz.GuessRows = 1
	cfg.Quiz.AdvanceDelay = "1s"
	return cfg
}

// Load reads YAML config from path on top of Defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Duration parses a duration string, returning fallback when raw is empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
