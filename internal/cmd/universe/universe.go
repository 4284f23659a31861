// Package universe parses universe command flags and starts the service.
package universe

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/tickverse/internal/platform/cmd"
	server "github.com/louisbranch/tickverse/internal/services/universe/app"
)

// Config holds universe command configuration.
type Config struct {
	Port     int    `env:"TICKVERSE_UNIVERSE_PORT" envDefault:"8090"`
	Addr     string `env:"TICKVERSE_UNIVERSE_ADDR"`
	HTTPAddr string `env:"TICKVERSE_UNIVERSE_HTTP_ADDR" envDefault:":8091"`
	DBPath   string `env:"TICKVERSE_UNIVERSE_DB_PATH" envDefault:"data/universe.db"`
	Storage  string `env:"TICKVERSE_UNIVERSE_STORAGE" envDefault:"sqlite"`

	MaxWatchers int `env:"TICKVERSE_UNIVERSE_MAX_WATCHERS" envDefault:"256"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The universe server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The universe server listen address (overrides -port)")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "The event stream listen address (empty disables it)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.StringVar(&cfg.Storage, "storage", cfg.Storage, "The storage backend: sqlite or memory")
	fs.IntVar(&cfg.MaxWatchers, "max-watchers", cfg.MaxWatchers, "Concurrent event stream connections allowed")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the configuration into server options.
func (c Config) Options() server.Options {
	addr := c.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", c.Port)
	}
	return server.Options{
		GRPCAddr: addr,
		HTTPAddr: c.HTTPAddr,
		Storage:  c.Storage,
		DBPath:   c.DBPath,

		MaxWatchers: c.MaxWatchers,
	}
}

// Run starts the universe service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceUniverse, func(ctx context.Context) error {
		return server.Run(ctx, cfg.Options())
	})
}
