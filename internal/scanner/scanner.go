package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/alejandrodnm/storearb/internal/ports"
	"github.com/google/uuid"
)

// Config contiene la configuración del scanner.
type Config struct {
	Currency         string
	MinProfitPerItem float64
	// ScanInterval > 0 repite el run en loop; 0 ejecuta un solo run.
	ScanInterval time.Duration
	// DryRun no persiste el set actual (sí lee el anterior para el diff).
	DryRun bool
}

// DefaultConfig devuelve una configuración sensata de un solo run.
func DefaultConfig() Config {
	return Config{
		MinProfitPerItem: defaultMinProfitPerItem,
	}
}

// Scanner orquesta un run: fetch → find → load anterior → diff → save → notify.
type Scanner struct {
	cfg       Config
	stores    ports.StoreProvider
	snapshots ports.SnapshotStore
	notifier  ports.Notifier
	finder    *Finder
	now       func() time.Time
}

// New crea un Scanner con todas las dependencias inyectadas.
// snapshots puede ser nil: entonces no hay diff ni persistencia.
func New(
	cfg Config,
	stores ports.StoreProvider,
	snapshots ports.SnapshotStore,
	notifier ports.Notifier,
) *Scanner {
	return &Scanner{
		cfg:       cfg,
		stores:    stores,
		snapshots: snapshots,
		notifier:  notifier,
		finder:    NewFinder(cfg.Currency, cfg.MinProfitPerItem),
		now:       time.Now,
	}
}

// Run ejecuta un run y, si ScanInterval > 0, repite hasta que el contexto se cancele.
// En modo de un solo run devuelve el error del run.
func (s *Scanner) Run(ctx context.Context) error {
	slog.Info("scanner starting",
		"currency", s.cfg.Currency,
		"min_profit_per_item", s.cfg.MinProfitPerItem,
		"interval", s.cfg.ScanInterval,
		"dry_run", s.cfg.DryRun,
	)

	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("scan run failed", "err", err)
		if s.cfg.ScanInterval <= 0 {
			return err
		}
	}

	if s.cfg.ScanInterval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("scanner stopped")
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Error("scan run failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta exactamente un run y devuelve el reporte.
// Si el snapshot no se pudo obtener o está malformado devuelve el error sin
// tocar el estado persistido ni notificar. Los fallos de lectura/escritura del
// estado se registran y no abortan el run.
func (s *Scanner) RunOnce(ctx context.Context) (domain.Report, error) {
	start := s.now()

	stores, err := s.stores.FetchStores(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("scanner.RunOnce: %w", err)
	}

	current := s.finder.Find(stores)

	report := domain.Report{
		RunID:     uuid.NewString(),
		ScannedAt: start.UTC(),
		Currency:  s.cfg.Currency,
		Stores:    len(stores),
		Current:   current,
	}

	if s.snapshots != nil {
		previous, ok := s.loadPrevious(ctx)
		report.HasPrevious = ok
		report.Changes = Diff(previous, current)

		if !s.cfg.DryRun {
			if err := s.snapshots.Save(ctx, current); err != nil {
				slog.Warn("snapshot save failed", "err", err)
			} else {
				slog.Debug("opportunities saved", "count", current.Len())
			}
		}
	}

	if err := s.notifier.Notify(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	slog.Info("scan run complete",
		"run_id", report.RunID,
		"stores", len(stores),
		"opportunities", current.Len(),
		"appeared", len(report.Changes.Appeared),
		"gone", len(report.Changes.Gone),
		"increased", len(report.Changes.Increased),
		"duration", s.now().Sub(start).Round(time.Millisecond),
	)
	return report, nil
}

// loadPrevious lee el set del run anterior. Primer run y estado corrupto se
// tratan igual: set vacío. ok es false en ambos casos.
func (s *Scanner) loadPrevious(ctx context.Context) (domain.OpportunitySet, bool) {
	previous, err := s.snapshots.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPersistenceRead) {
			slog.Warn("previous snapshot unreadable, treating as empty", "err", err)
		} else {
			slog.Warn("previous snapshot load failed, treating as empty", "err", err)
		}
		return domain.OpportunitySet{}, false
	}
	return previous, previous.Len() > 0
}
