package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidfriends/mediayoutube/internal/config"
	"github.com/vidfriends/mediayoutube/internal/db"
	"github.com/vidfriends/mediayoutube/internal/handlers"
	"github.com/vidfriends/mediayoutube/internal/middleware"
	"github.com/vidfriends/mediayoutube/internal/repositories"
	"github.com/vidfriends/mediayoutube/internal/storage"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The returned cleanup drains the warm-up queue and closes shared
// clients.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, logger *slog.Logger) (handlers.Dependencies, func(context.Context) error, error) {
	resolver, closeResolver, err := newResolver(ctx, cfg, logger)
	if err != nil {
		return handlers.Dependencies{}, nil, err
	}

	media := repositories.NewPostgresMediaRepository(pool)
	bundles := repositories.NewPostgresBundleRepository(pool)

	warmer := youtube.NewThumbnailWarmer(resolver, media, youtube.WarmerConfig{
		QueueSize: cfg.WarmupQueueSize,
		Workers:   cfg.WarmupWorkers,
		Timeout:   4 * cfg.HTTPTimeout,
	}, logger)

	limiter := middleware.NewKeyedRateLimiter(cfg.ResolveRateLimit, cfg.ResolveRateWindow, cfg.ResolveRateBurst, 10*time.Minute)

	deps := handlers.Dependencies{
		Resolver:           resolver,
		Media:              media,
		Bundles:            bundles,
		Warmer:             warmer,
		ResolveLimiter:     limiter,
		DefaultSourceField: cfg.Media.SourceField,
	}

	cleanup := func(ctx context.Context) error {
		return errors.Join(warmer.Shutdown(ctx), closeResolver())
	}

	return deps, cleanup, nil
}

// newResolver builds the resolver with its metadata provider, metadata cache
// and thumbnail store as selected by cfg.
func newResolver(ctx context.Context, cfg config.Config, logger *slog.Logger) (*youtube.Resolver, func() error, error) {
	fetcher := youtube.NewHTTPFetcher(cfg.HTTPTimeout)

	var base youtube.Provider
	switch cfg.MetadataBackend {
	case "ytdlp":
		base = youtube.NewYTDLPProvider(cfg.YTDLPPath, cfg.YTDLPTimeout)
	default:
		base = youtube.NewFeedProvider(cfg.MetadataURL, fetcher)
	}

	closeFn := func() error { return nil }
	var cacheOpts []youtube.CacheOption
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		cacheOpts = append(cacheOpts, youtube.WithRedis(rdb))
		closeFn = rdb.Close
	}
	metadata := youtube.NewCachingProvider(base, cfg.MetadataCacheTTL, cacheOpts...)

	var files youtube.FileStore
	switch cfg.ThumbnailStore {
	case "s3":
		s3Store, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			_ = closeFn()
			return nil, nil, err
		}
		files = s3Store
	default:
		files = storage.NewLocalFileStore("")
	}

	resolver := youtube.NewResolver(youtube.Config{
		SourceField:        cfg.Media.SourceField,
		LocalImages:        cfg.Media.LocalImages,
		IconBase:           cfg.Media.IconBase,
		MaxResThumbnailURL: cfg.Media.MaxResThumbnailURL,
	}, metadata, files, fetcher, logger)

	return resolver, closeFn, nil
}
