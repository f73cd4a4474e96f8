package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Shirsha07/nifty-200-dashboard/internal/model"
)

// SQLiteRecorder logs render passes to an in-memory SQLite database.
// Nothing survives the process.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens a fresh in-memory database and runs migrations.
func NewSQLiteRecorder() (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every pooled connection to :memory: would get its own empty database
	db.SetMaxOpenConns(1)

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	zap.S().Debug("in-memory pass log opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passes (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL UNIQUE,
			source        TEXT,
			timestamp     INTEGER NOT NULL,
			elapsed       TEXT,
			universe_size INTEGER,
			failed        INTEGER,
			insufficient  INTEGER,
			trending      INTEGER,
			selected      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_passes_ts ON passes(timestamp)`,

		`CREATE TABLE IF NOT EXISTS movers (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id         TEXT NOT NULL,
			side           TEXT NOT NULL,
			position       INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			percent_change REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movers_run ON movers(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordPass(d *model.Dashboard, trigger Trigger) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	selected := ""
	if d.Selected != nil {
		selected = d.Selected.Symbol
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO passes
		(run_id, source, timestamp, elapsed, universe_size, failed, insufficient, trending, selected)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		d.RunID, string(trigger), d.GeneratedAt.UnixMilli(), d.Elapsed,
		d.UniverseSize, len(d.Failed), d.InsufficientData, len(d.Trending), selected,
	)
	if err != nil {
		return fmt.Errorf("insert pass: %w", err)
	}

	sides := []struct {
		name    string
		records []model.MoverRecord
	}{
		{"gainer", d.Gainers},
		{"loser", d.Losers},
	}
	for _, side := range sides {
		for i, m := range side.records {
			_, err := tx.Exec(`INSERT INTO movers (run_id, side, position, symbol, percent_change) VALUES (?,?,?,?,?)`,
				d.RunID, side.name, i+1, m.Symbol, m.PercentChange)
			if err != nil {
				return fmt.Errorf("insert mover: %w", err)
			}
		}
	}
	return tx.Commit()
}

// RecentPasses returns up to limit passes, newest first, with their movers.
func (r *SQLiteRecorder) RecentPasses(limit int) ([]PassRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, source, timestamp, elapsed, universe_size, failed, insufficient, trending, selected
		FROM passes ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query passes: %w", err)
	}

	var passes []PassRecord
	for rows.Next() {
		var (
			p       PassRecord
			trigger string
			ts      int64
		)
		if err := rows.Scan(&p.RunID, &trigger, &ts, &p.Elapsed, &p.UniverseSize,
			&p.Failed, &p.Insufficient, &p.Trending, &p.Selected); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pass: %w", err)
		}
		p.Trigger = Trigger(trigger)
		p.Timestamp = time.UnixMilli(ts).UTC()
		passes = append(passes, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate passes: %w", err)
	}
	rows.Close()

	for i := range passes {
		movers, err := r.movers(passes[i].RunID)
		if err != nil {
			return nil, err
		}
		passes[i].Movers = movers
	}
	return passes, nil
}

func (r *SQLiteRecorder) movers(runID string) ([]MoverRecord, error) {
	rows, err := r.db.Query(`SELECT side, position, symbol, percent_change FROM movers
		WHERE run_id = ? ORDER BY side ASC, position ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query movers: %w", err)
	}
	defer rows.Close()

	var out []MoverRecord
	for rows.Next() {
		var m MoverRecord
		if err := rows.Scan(&m.Side, &m.Rank, &m.Symbol, &m.PercentChange); err != nil {
			return nil, fmt.Errorf("scan mover: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	zap.S().Debug("closing pass log")
	return r.db.Close()
}
