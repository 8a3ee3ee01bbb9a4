// Package server assembles and runs the feedback service: SQLite storage,
// the domain service, the aggregate engine, and the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/stepwise/internal/platform/timeouts"
	"github.com/louisbranch/stepwise/internal/services/feedback/aggregate"
	"github.com/louisbranch/stepwise/internal/services/feedback/api/httpapi"
	"github.com/louisbranch/stepwise/internal/services/feedback/domain"
	"github.com/louisbranch/stepwise/internal/services/feedback/observability/audit"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage"
	"github.com/louisbranch/stepwise/internal/services/feedback/storage/sqlite"
)

// Config holds the feedback service runtime configuration.
type Config struct {
	Port   int
	DBPath string
}

// NewHandler builds the full feedback HTTP handler over an open store.
// Exposed separately from Run so tests can drive the API in-process.
func NewHandler(store storage.Store) http.Handler {
	domainStore := newDomainStoreAdapter(store)
	aggregateStore := newAggregateStoreAdapter(store)

	service := domain.NewService(domainStore, nil, nil)
	engine := aggregate.NewEngine(aggregateStore, aggregateStore)
	api := httpapi.NewServer(service, engine, domainStore)

	emitter := audit.NewEmitter(store)
	return httpapi.WithAudit(emitter, httpapi.WithIdentity(api.Routes()))
}

// Run starts the feedback HTTP service and blocks until the context ends
// or the server fails.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Port <= 0 {
		return fmt.Errorf("port is required")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("db path is required")
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open feedback store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Printf("close feedback store: %v", closeErr)
		}
	}()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           NewHandler(store),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	serveErr := make(chan error, 1)
	log.Printf("feedback listening on %s", httpServer.Addr)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
