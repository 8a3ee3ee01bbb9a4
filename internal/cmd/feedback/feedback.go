// Package feedback parses feedback service flags and launches the service.
package feedback

import (
	"context"
	"flag"

	entrypoint "github.com/louisbranch/stepwise/internal/platform/cmd"
	server "github.com/louisbranch/stepwise/internal/services/feedback/app"
)

// Config holds feedback command configuration.
type Config struct {
	Port   int    `env:"STEPWISE_FEEDBACK_PORT" envDefault:"8095"`
	DBPath string `env:"STEPWISE_FEEDBACK_DB_PATH" envDefault:"feedback.db"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The feedback HTTP server port")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the feedback SQLite database")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the feedback HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceFeedback, func(context.Context) error {
		return server.Run(ctx, server.Config{
			Port:   cfg.Port,
			DBPath: cfg.DBPath,
		})
	})
}
