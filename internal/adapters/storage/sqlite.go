package storage

// sqlite.go — histórico de runs en SQLite.
//
// Estrategia:
//   - `runs`: una fila por run guardado (uuid, fecha, moneda, conteo, ganancia total).
//   - `opportunities`: las oportunidades de cada run, ligadas por run_id.
//   - Load devuelve las oportunidades del último run: es el "set anterior" del diff.
//   - Prune automático al arrancar: runs con más de 30 días.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    seq          INTEGER PRIMARY KEY AUTOINCREMENT,
    id           TEXT    NOT NULL UNIQUE,
    scanned_at   TEXT    NOT NULL,
    currency     TEXT    NOT NULL DEFAULT '',
    total        INTEGER NOT NULL DEFAULT 0,
    total_profit REAL    NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS opportunities (
    run_id                 TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position               INTEGER NOT NULL,
    buy_from               TEXT NOT NULL,
    sell_to                TEXT NOT NULL,
    item_name              TEXT NOT NULL,
    buy_price              REAL NOT NULL,
    sell_price             REAL NOT NULL,
    profit_per_item        REAL NOT NULL,
    potential_quantity     REAL NOT NULL,
    total_potential_profit REAL NOT NULL,
    PRIMARY KEY (run_id, buy_from, sell_to, item_name)
);

CREATE INDEX IF NOT EXISTS idx_opp_run ON opportunities(run_id, position);
`

const retentionRuns = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.SnapshotStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db       *sql.DB
	currency string
	now      func() time.Time
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// currency se guarda como metadata de cada run. Aplica el schema y limpia runs antiguos.
func NewSQLiteStorage(path, currency string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db, currency: currency, now: time.Now}
	if n, err := s.pruneOld(context.Background()); err != nil {
		slog.Warn("sqlite prune failed", "err", err)
	} else if n > 0 {
		slog.Debug("sqlite pruned old runs", "runs", n)
	}
	return s, nil
}

// Save guarda el set como un run nuevo en una sola transacción.
// Un set vacío también se guarda: el próximo diff debe compararse contra él.
func (s *SQLiteStorage) Save(ctx context.Context, set domain.OpportunitySet) error {
	runID := uuid.NewString()
	now := s.now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SQLiteStorage.Save: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, scanned_at, currency, total, total_profit) VALUES (?, ?, ?, ?, ?)`,
		runID, now.Format(time.RFC3339Nano), s.currency, set.Len(), set.TotalProfit(),
	); err != nil {
		return fmt.Errorf("storage.SQLiteStorage.Save: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO opportunities
			(run_id, position, buy_from, sell_to, item_name, buy_price, sell_price,
			 profit_per_item, potential_quantity, total_potential_profit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("storage.SQLiteStorage.Save: prepare: %w", err)
	}
	defer stmt.Close()

	for i, o := range set.Items() {
		if _, err := stmt.ExecContext(ctx,
			runID, i,
			o.BuyFrom, o.SellTo, o.ItemName,
			o.BuyPrice, o.SellPrice,
			o.ProfitPerItem, o.PotentialQuantity, o.TotalPotentialProfit,
		); err != nil {
			return fmt.Errorf("storage.SQLiteStorage.Save: insert %s→%s %s: %w", o.BuyFrom, o.SellTo, o.ItemName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SQLiteStorage.Save: commit: %w", err)
	}
	return nil
}

// Load devuelve las oportunidades del último run guardado, en su orden original.
// Sin runs devuelve un set vacío sin error.
func (s *SQLiteStorage) Load(ctx context.Context) (domain.OpportunitySet, error) {
	var runID string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM runs ORDER BY seq DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return domain.OpportunitySet{}, nil
	}
	if err != nil {
		return domain.OpportunitySet{}, fmt.Errorf("storage.SQLiteStorage.Load: %w: latest run: %v", domain.ErrPersistenceRead, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT buy_from, sell_to, item_name, buy_price, sell_price,
		       profit_per_item, potential_quantity, total_potential_profit
		FROM opportunities
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return domain.OpportunitySet{}, fmt.Errorf("storage.SQLiteStorage.Load: %w: query: %v", domain.ErrPersistenceRead, err)
	}
	defer rows.Close()

	var set domain.OpportunitySet
	for rows.Next() {
		var o domain.Opportunity
		if err := rows.Scan(
			&o.BuyFrom, &o.SellTo, &o.ItemName,
			&o.BuyPrice, &o.SellPrice,
			&o.ProfitPerItem, &o.PotentialQuantity, &o.TotalPotentialProfit,
		); err != nil {
			return domain.OpportunitySet{}, fmt.Errorf("storage.SQLiteStorage.Load: %w: scan row: %v", domain.ErrPersistenceRead, err)
		}
		set.Add(o)
	}
	if err := rows.Err(); err != nil {
		return domain.OpportunitySet{}, fmt.Errorf("storage.SQLiteStorage.Load: %w: %v", domain.ErrPersistenceRead, err)
	}
	return set, nil
}

// History devuelve los últimos runs guardados, del más reciente al más antiguo.
func (s *SQLiteStorage) History(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scanned_at, currency, total, total_profit
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.SQLiteStorage.History: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		var scannedAt string
		if err := rows.Scan(&r.RunID, &scannedAt, &r.Currency, &r.Opportunities, &r.TotalProfit); err != nil {
			return nil, fmt.Errorf("storage.SQLiteStorage.History: scan row: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, scannedAt)
		if err != nil {
			slog.Warn("sqlite run with unparsable scanned_at", "run_id", r.RunID, "scanned_at", scannedAt, "err", err)
		}
		r.ScannedAt = ts
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina runs antiguos (y sus oportunidades por cascade).
// Nunca borra el último run: es el estado anterior del próximo diff.
// Devuelve cuántos runs se borraron.
func (s *SQLiteStorage) pruneOld(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-retentionRuns).Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM runs
		WHERE scanned_at < ?
		  AND seq < (SELECT MAX(seq) FROM runs)
	`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("storage.SQLiteStorage.pruneOld: %w", err)
	}
	return res.RowsAffected()
}
