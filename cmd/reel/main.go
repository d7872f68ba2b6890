package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/adapter/source/tmdb"
	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/favorites"
	"github.com/mmcdole/reel/internal/store"
	"github.com/mmcdole/reel/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

const setupTimeout = 2 * time.Minute

func main() {
	var (
		showVersion bool
		feed        string
		resetKey    bool
		clearData   bool
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&feed, "feed", "", "feed to open: popular, top_rated, now_playing, upcoming, trending")
	flag.BoolVar(&resetKey, "reset-key", false, "forget the saved TMDB API key and prompt again")
	flag.BoolVar(&clearData, "clear-data", false, "delete the local favorites database and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("reel %s\n", Version)
		return
	}

	if err := run(feed, resetKey, clearData); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(feedFlag string, resetKey, clearData bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if clearData {
		if err := adapter.ClearData(cfg); err != nil {
			return err
		}
		fmt.Println("✓ Local data cleared")
		return nil
	}

	// Setup logger
	logger, closeLog, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger, closeLog = adapter.NullLogger(), func() error { return nil }
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("starting reel", "version", Version)

	if resetKey {
		if err := adapter.ClearAPIKey(cfg); err != nil {
			return fmt.Errorf("failed to reset API key: %w", err)
		}
	}

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, logger); err != nil {
			return err
		}
	}

	if feedFlag == "" {
		feedFlag = cfg.UI.DefaultFeed
	}
	defaultFeed, err := domain.ParseFeedKind(feedFlag)
	if err != nil {
		return err
	}

	kv, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer kv.Close()

	notifier := tui.NewChannelNotifier(16)
	client := tmdb.NewClient(catalogOptions(cfg), logger)
	favs := favorites.NewStore(kv, notifier, logger)
	ctrl := browse.NewController(client, notifier, defaultFeed, logger)

	unsubscribe := ctrl.Subscribe(func(s browse.State) {
		logger.Debug("browse state",
			"mode", s.Mode.String(),
			"status", s.Status.String(),
			"page", s.Page,
			"items", len(s.Items),
			"hasMore", s.HasMore,
			"generation", s.Generation)
	})
	defer unsubscribe()

	model := tui.NewModel(tui.Deps{
		Browse:        ctrl,
		Favorites:     favs,
		Catalog:       client,
		Genres:        client,
		Links:         client,
		Opener:        adapter.NewLauncher(cfg.UI.Browser, logger),
		Notifications: notifier.C(),
		DefaultFeed:   defaultFeed,
		Logger:        logger,
	})

	// Run the TUI
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "feed", defaultFeed)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// openStorage opens the configured favorites backend. When it is
// unreachable, favorites still work for this session but are not saved.
func openStorage(cfg *adapter.Config, logger *slog.Logger) (domain.KVStorage, error) {
	kv, err := store.Open(store.Options{
		Driver: string(cfg.Storage.Driver),
		Path:   cfg.Storage.Path,
		Redis: store.RedisOptions{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
			Prefix:   cfg.Storage.RedisPrefix,
		},
	})
	if err == nil {
		return kv, nil
	}

	logger.Error("favorites storage unavailable", "driver", cfg.Storage.Driver, "error", err)
	fmt.Fprintf(os.Stderr, "Warning: favorites will not be saved this session: %v\n", err)
	return store.NewBoltStore("")
}

func catalogOptions(cfg *adapter.Config) tmdb.Options {
	return tmdb.Options{
		APIKey:            cfg.Catalog.APIKey,
		BaseURL:           cfg.Catalog.BaseURL,
		ImageBaseURL:      cfg.Catalog.ImageBaseURL,
		Language:          cfg.Catalog.Language,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		Burst:             cfg.Catalog.Burst,
		Timeout:           cfg.Catalog.Timeout,
	}
}

// runSetupFlow handles the initial setup when no API key is configured
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Reel!")

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	key, err := tmdb.NewAuthFlow(catalogOptions(cfg), logger).Run(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			return fmt.Errorf("no valid API key entered")
		}
		return fmt.Errorf("setup failed: %w", err)
	}

	cfg.Catalog.APIKey = key
	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}
