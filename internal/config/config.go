package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service settings, populated from an optional config file
// and DASHBOARD_* environment variables.
type Config struct {
	DataFile        string        `mapstructure:"data_file"`
	HTTPAddr        string        `mapstructure:"http_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFormat       string        `mapstructure:"log_format"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// Geo enrichment.
	JitterRadius float64 `mapstructure:"jitter_radius"`
	RandomSeed   int64   `mapstructure:"random_seed"` // 0 = time-seeded

	// Live simulation.
	LiveTicks    int           `mapstructure:"live_ticks"`
	LiveDelay    time.Duration `mapstructure:"live_delay"`
	LiveSeedRows int           `mapstructure:"live_seed_rows"`
}

// Load reads configuration, applying defaults where unset. A config.yaml in
// the working directory is optional; environment variables always win.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("DASHBOARD")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// AutomaticEnv only resolves keys viper already knows about, so bind the
	// ones that may have no default in the file.
	for _, key := range []string{
		"data_file", "http_addr", "log_level", "log_format", "shutdown_timeout",
		"jitter_radius", "random_seed", "live_ticks", "live_delay", "live_seed_rows",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DataFile == "" {
		return nil, errors.New("data_file is required")
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("http_addr is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("shutdown_timeout must be positive")
	}
	if cfg.JitterRadius <= 0 {
		return nil, errors.New("jitter_radius must be positive")
	}
	if cfg.LiveTicks <= 0 {
		return nil, errors.New("live_ticks must be positive")
	}
	if cfg.LiveDelay < 0 {
		return nil, errors.New("live_delay must not be negative")
	}
	if cfg.LiveSeedRows <= 0 {
		return nil, errors.New("live_seed_rows must be positive")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_file", "data.csv")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("jitter_radius", 0.02)
	v.SetDefault("random_seed", 0)
	v.SetDefault("live_ticks", 30)
	v.SetDefault("live_delay", "1s")
	v.SetDefault("live_seed_rows", 10)
}
