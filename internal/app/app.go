package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vidfriends/mediayoutube/internal/config"
	"github.com/vidfriends/mediayoutube/internal/db"
	"github.com/vidfriends/mediayoutube/internal/handlers"
	"github.com/vidfriends/mediayoutube/internal/httpserver"
	"github.com/vidfriends/mediayoutube/internal/logging"
	"github.com/vidfriends/mediayoutube/internal/middleware"
	"github.com/vidfriends/mediayoutube/internal/youtube"
)

const usage = "expected command: serve, migrate, seed, or resolve"

// Run bootstraps the media service.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	switch args[0] {
	case "serve":
		return serve(ctx)
	case "migrate":
		return runMigrations(ctx, args[1:])
	case "seed":
		return runSeed(ctx, args[1:])
	case "resolve":
		return runResolve(ctx, args[1:], os.Stdout)
	default:
		return fmt.Errorf("unknown command %q (%s)", args[0], usage)
	}
}

func newLogger(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     logging.ParseLevel(level),
	}))
}

func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	deps, cleanup, err := buildDependencies(ctx, pool, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
		defer cancel()
		if err := cleanup(cleanupCtx); err != nil {
			logger.Warn("dependency cleanup failed", "error", err)
		}
	}()

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, deps)

	handler := middleware.RequestLogger(logger)(mux)

	srv := httpserver.New(cfg.AppPort, handler,
		httpserver.WithWriteTimeout(2*cfg.HTTPTimeout+5*time.Second),
	)

	logger.Info("starting http server", "port", cfg.AppPort, "thumbnailStore", cfg.ThumbnailStore, "metadataBackend", cfg.MetadataBackend)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// runResolve prints the fields of a single reference as JSON. Without field
// names every field except local_thumbnail is resolved.
func runResolve(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("expected reference (URL or embed code)")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel, os.Stderr)

	resolver, closeResolver, err := newResolver(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeResolver()

	reference := strings.TrimSpace(args[0])
	if err := resolver.Validate(reference); err != nil {
		return err
	}

	fields := make([]youtube.Field, 0, len(youtube.AllFields))
	if len(args) > 1 {
		for _, name := range args[1:] {
			f, err := youtube.ParseField(name)
			if err != nil {
				return err
			}
			fields = append(fields, f)
		}
	} else {
		for _, f := range youtube.AllFields {
			if f != youtube.FieldLocalThumbnail {
				fields = append(fields, f)
			}
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resolver.ResolveAll(ctx, reference, fields))
}
