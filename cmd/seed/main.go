// Command seed loads sample articles into the database configured by the
// environment and drops the cached article list so the API serves them
// at once. It is safe to run more than once.
package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"os"

	"directorio/internal/cache"
	"directorio/internal/config"
	"directorio/internal/database"
	"directorio/internal/logging"
	"directorio/internal/seed"
	"directorio/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, closer := logging.New(logging.Options{Level: cfg.LogLevel})
	defer closer.Close()
	slog.SetDefault(logger)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	res, err := seed.Run(ctx, store.NewArticleStore(db), rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if res.Created > 0 {
		invalidateLists(ctx, cfg)
	}
	if err != nil {
		slog.Error("seeding failed", "error", err, "created", res.Created)
		os.Exit(1)
	}
	slog.Info("seeding finished", "created", res.Created, "skipped", res.Skipped)
}

// invalidateLists clears the API's list cache. An unreachable Valkey only
// means the old list lives until its TTL.
func invalidateLists(ctx context.Context, cfg *config.Config) {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unreachable, list cache not cleared", "error", err)
		return
	}
	defer client.Close()

	cache.NewListCache(client, 0).InvalidateAll(ctx)
}
