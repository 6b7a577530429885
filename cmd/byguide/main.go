package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/byguide/byguide"
	"github.com/byguide/byguide/bboltstore"
	"github.com/byguide/byguide/sqlitestore"
	"github.com/byguide/byguide/web"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "byguide",
		Short: "ByGuide affiliate review blog",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "byguide.toml", "path to the TOML config file")

	rootCmd.AddCommand(serveCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			guide, cache, cfg, err := buildEngine(logger)
			if err != nil {
				return err
			}
			defer func() { _ = guide.Close() }()

			// A fresh install gets the sample reviews so the site isn't empty.
			if count, err := guide.Seed(cmd.Context(), cfg.SeedDir); err != nil {
				logger.Warn("seeding skipped", slog.String("error", err.Error()))
			} else if count > 0 {
				logger.Info("seeded sample reviews", slog.Int("count", count))
			}

			return web.NewServer(guide, cfg, cache, logger).Run()
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Import the sample reviews into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			guide, _, cfg, err := buildEngine(logger)
			if err != nil {
				return err
			}
			defer func() { _ = guide.Close() }()

			count, err := guide.Seed(cmd.Context(), cfg.SeedDir)
			if err != nil {
				return err
			}

			logger.Info("seed complete", slog.Int("imported", count))
			return nil
		},
	}
}

func buildEngine(logger *slog.Logger) (*byguide.ByGuide, *byguide.PageCache, *byguide.Config, error) {
	cfg, err := byguide.LoadConfig(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	if err := store.Init(); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	cache := byguide.NewPageCache()
	guide, err := byguide.NewByGuide(byguide.Options{
		Store:  store,
		Cache:  cache,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}

	return guide, cache, cfg, nil
}

func openStore(cfg *byguide.Config) (byguide.PostStore, error) {
	switch cfg.Backend {
	case "sqlite":
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}

		db, err := sqlitestore.Open(filepath.Join(cfg.DataDir, "byguide.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return sqlitestore.New(db, "posts"), nil
	case "bbolt":
		return bboltstore.New(cfg.DataDir), nil
	case "memory":
		return byguide.NewMemoryPostStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
