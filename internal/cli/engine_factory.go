// Package cli implements the command logic behind cmd/ladle.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"

	"github.com/aretw0/ladle"
	"github.com/aretw0/ladle/internal/config"
	"github.com/aretw0/ladle/internal/observability"
	"github.com/aretw0/ladle/pkg/adapters/extract"
	genaiAdapter "github.com/aretw0/ladle/pkg/adapters/genai"
	loamAdapter "github.com/aretw0/ladle/pkg/adapters/loam"
	redisAdapter "github.com/aretw0/ladle/pkg/adapters/redis"
)

// Runtime bundles a configured engine with its metrics registry and cleanup.
type Runtime struct {
	Engine   *ladle.Engine
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases resources held by the runtime (redis connections).
func (r *Runtime) Close() error {
	var firstErr error
	for _, c := range r.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// BuildRuntime wires an engine from configuration: redis-backed state and
// locking when configured (in-memory otherwise), the extraction client, the
// Gemini answerer, and Prometheus lifecycle hooks.
func BuildRuntime(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	rt := &Runtime{Registry: prometheus.NewRegistry()}

	metrics := observability.NewMetrics(rt.Registry)
	opts := []ladle.Option{
		ladle.WithLogger(logger),
		ladle.WithLifecycleHooks(metrics.Hooks(logger)),
		ladle.WithCollaboratorTimeout(cfg.CollaboratorTimeout.Std()),
	}

	if cfg.Redis.Addr != "" {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store := redisAdapter.NewFromClient(client, redisAdapter.WithTTL(cfg.Redis.SessionTTL.Std()))
		rt.closers = append(rt.closers, store.Close)

		opts = append(opts,
			ladle.WithStateStore(store),
			ladle.WithLocker(redisAdapter.NewLocker(client, "ladle:")),
		)
		logger.Info("using redis session store", "addr", cfg.Redis.Addr)
	}

	if cfg.ExtractorURL != "" {
		opts = append(opts, ladle.WithExtractor(extract.New(cfg.ExtractorURL)))
	}

	if cfg.GenAI.Enabled {
		var answererOpts []genaiAdapter.Option
		if cfg.GenAI.Model != "" {
			answererOpts = append(answererOpts, genaiAdapter.WithModel(cfg.GenAI.Model))
		}
		answerer, err := genaiAdapter.New(ctx, answererOpts...)
		if err != nil {
			return nil, fmt.Errorf("failed to set up answering collaborator: %w", err)
		}
		opts = append(opts, ladle.WithAnswerer(answerer))
	}

	engine, err := ladle.New(opts...)
	if err != nil {
		return nil, err
	}
	rt.Engine = engine

	if cfg.BookPath != "" {
		if err := LoadBook(ctx, engine, cfg.BookPath); err != nil {
			return nil, err
		}
	}

	return rt, nil
}

// LoadBook loads every recipe from a local recipe book into the engine.
func LoadBook(ctx context.Context, engine *ladle.Engine, path string) error {
	book, err := loamAdapter.Open(path)
	if err != nil {
		return err
	}

	ids, err := book.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		recipe, err := book.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("recipe book entry %q: %w", id, err)
		}
		if err := engine.AddRecipe(ctx, recipe); err != nil {
			return fmt.Errorf("recipe book entry %q: %w", id, err)
		}
	}
	return nil
}
