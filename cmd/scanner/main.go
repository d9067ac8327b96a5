package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/storearb/config"
	"github.com/alejandrodnm/storearb/internal/adapters/notify"
	"github.com/alejandrodnm/storearb/internal/adapters/storage"
	"github.com/alejandrodnm/storearb/internal/adapters/storefront"
	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/alejandrodnm/storearb/internal/ports"
	"github.com/alejandrodnm/storearb/internal/scanner"
)

const (
	exitConfig = 1 // configuración o storage inutilizable
	exitNoData = 2 // no se pudo obtener un snapshot válido
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional, env vars override it)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	dryRun := flag.Bool("dry-run", false, "diff against the saved state but do not overwrite it")
	history := flag.Bool("history", false, "print recorded runs (sqlite backend) and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(exitConfig)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history {
		os.Exit(runHistory(ctx, cfg))
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(exitConfig)
	}

	slog.Info("storearb starting",
		"url", cfg.Source.URL,
		"currency_filter", cfg.Scanner.CurrencyFilter,
		"min_profit_per_item", cfg.Scanner.MinProfitPerItem,
		"backend", cfg.Storage.Backend,
		"interval", cfg.ScanInterval(),
		"dry_run", *dryRun,
	)

	snapshots, err := openSnapshotStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open snapshot store", "err", err, "backend", cfg.Storage.Backend)
		os.Exit(exitConfig)
	}
	defer snapshots.Close()

	client := storefront.NewClient(cfg.Source.URL, cfg.FetchTimeout())
	notifier := notify.NewConsole()

	scanCfg := scanner.DefaultConfig()
	scanCfg.Currency = cfg.Scanner.CurrencyFilter
	scanCfg.MinProfitPerItem = cfg.Scanner.MinProfitPerItem
	scanCfg.ScanInterval = cfg.ScanInterval()
	scanCfg.DryRun = *dryRun

	s := scanner.New(scanCfg, client, snapshots, notifier)

	if err := s.Run(ctx); err != nil {
		code := exitConfig
		if errors.Is(err, domain.ErrFetchFailed) || errors.Is(err, domain.ErrMalformedSnapshot) {
			code = exitNoData
		}
		slog.Error("scanner exited with error", "err", err)
		snapshots.Close()
		os.Exit(code)
	}

	slog.Info("storearb stopped cleanly")
}

// openSnapshotStore crea el backend de persistencia configurado.
func openSnapshotStore(ctx context.Context, cfg *config.Config) (ports.SnapshotStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		return storage.NewSQLiteStorage(cfg.Storage.DSN, cfg.Scanner.CurrencyFilter)
	case config.BackendRedis:
		return storage.NewRedisStorage(ctx, storage.RedisConfig{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Key:      cfg.Storage.Redis.Key,
		})
	default:
		return storage.NewFileStorage(cfg.Storage.Path), nil
	}
}

// runHistory imprime el histórico de runs del backend sqlite y devuelve el exit code.
func runHistory(ctx context.Context, cfg *config.Config) int {
	if cfg.Storage.Backend != config.BackendSQLite {
		slog.Error("history requires the sqlite backend", "backend", cfg.Storage.Backend)
		return exitConfig
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN, cfg.Scanner.CurrencyFilter)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		return exitConfig
	}
	defer store.Close()

	runs, err := store.History(ctx, 20)
	if err != nil {
		slog.Error("failed to read history", "err", err)
		return exitConfig
	}
	notify.NewConsole().PrintHistory(runs)
	return 0
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Los logs van a stderr para que stdout quede solo con el reporte
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
