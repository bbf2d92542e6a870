// Package db provides SQLite-based market snapshot storage so priced
// calculations keep working offline.
package db

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"idle-profit/core/types"
	"idle-profit/internal/errors"
	"idle-profit/internal/logging"
)

// Snapshot is one stored market capture
type Snapshot struct {
	// ID is the snapshot identifier
	ID string `json:"id"`

	// FetchedAt is when the quotes were captured
	FetchedAt time.Time `json:"fetched_at"`

	// Source names where the quotes came from (URL or "feed")
	Source string `json:"source"`

	// Quotes are the captured market quotes
	Quotes []types.PriceQuote `json:"quotes"`
}

// NewSnapshot creates a snapshot with a fresh ID
func NewSnapshot(source string, quotes []types.PriceQuote) *Snapshot {
	return &Snapshot{
		ID:        uuid.NewString(),
		FetchedAt: time.Now().UTC(),
		Source:    source,
		Quotes:    quotes,
	}
}

// Age returns how old the snapshot is
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.FetchedAt)
}

// Store wraps a SQLite connection for snapshot persistence
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a snapshot database at the given path
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Storage("create database directory", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Storage("open database", err)
	}

	store := &Store{conn: conn}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, errors.Storage("migrate database", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		fetched_at INTEGER NOT NULL,
		source TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS quotes (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		item_hrid TEXT NOT NULL,
		enhancement_level INTEGER NOT NULL,
		ask REAL,
		bid REAL,
		PRIMARY KEY (snapshot_id, item_hrid, enhancement_level)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_fetched ON snapshots(fetched_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveSnapshot writes a snapshot and its quotes in one transaction
func (s *Store) SaveSnapshot(snap *Snapshot) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return errors.Storage("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO snapshots (id, fetched_at, source) VALUES (?, ?, ?)",
		snap.ID, snap.FetchedAt.Unix(), snap.Source,
	)
	if err != nil {
		return errors.Storage("insert snapshot", err)
	}

	stmt, err := tx.Preparex(`INSERT INTO quotes
		(snapshot_id, item_hrid, enhancement_level, ask, bid)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Storage("prepare quote insert", err)
	}
	defer stmt.Close()

	for _, q := range snap.Quotes {
		var ask, bid interface{}
		if q.Ask != nil {
			ask, _ = q.Ask.Float64()
		}
		if q.Bid != nil {
			bid, _ = q.Bid.Float64()
		}
		if _, err := stmt.Exec(snap.ID, string(q.ItemHrid), q.EnhancementLevel, ask, bid); err != nil {
			return errors.Storage("insert quote", err).WithContext("item", string(q.ItemHrid))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Storage("commit snapshot", err)
	}
	logging.Info("market snapshot saved",
		zap.String("id", snap.ID), zap.Int("quotes", len(snap.Quotes)))
	return nil
}

type snapshotRow struct {
	ID        string `db:"id"`
	FetchedAt int64  `db:"fetched_at"`
	Source    string `db:"source"`
}

type quoteRow struct {
	ItemHrid         string   `db:"item_hrid"`
	EnhancementLevel int      `db:"enhancement_level"`
	Ask              *float64 `db:"ask"`
	Bid              *float64 `db:"bid"`
}

// LoadLatest returns the most recent snapshot, or a NOT_FOUND error
// when the store is empty
func (s *Store) LoadLatest() (*Snapshot, error) {
	var row snapshotRow
	err := s.conn.Get(&row,
		"SELECT id, fetched_at, source FROM snapshots ORDER BY fetched_at DESC, id DESC LIMIT 1")
	if err != nil {
		return nil, errors.NotFound("market snapshot", "latest")
	}

	var quoteRows []quoteRow
	err = s.conn.Select(&quoteRows,
		"SELECT item_hrid, enhancement_level, ask, bid FROM quotes WHERE snapshot_id = ?", row.ID)
	if err != nil {
		return nil, errors.Storage("load quotes", err)
	}

	snap := &Snapshot{
		ID:        row.ID,
		FetchedAt: time.Unix(row.FetchedAt, 0).UTC(),
		Source:    row.Source,
		Quotes:    make([]types.PriceQuote, 0, len(quoteRows)),
	}
	for _, q := range quoteRows {
		snap.Quotes = append(snap.Quotes, toQuote(q))
	}
	return snap, nil
}

func toQuote(row quoteRow) types.PriceQuote {
	quote := types.PriceQuote{
		ItemHrid:         types.ItemHrid(row.ItemHrid),
		EnhancementLevel: row.EnhancementLevel,
	}
	if row.Ask != nil {
		d := decimal.NewFromFloat(*row.Ask)
		quote.Ask = &d
	}
	if row.Bid != nil {
		d := decimal.NewFromFloat(*row.Bid)
		quote.Bid = &d
	}
	return quote
}

// Prune deletes all but the newest keep snapshots
func (s *Store) Prune(keep int) error {
	if keep < 1 {
		keep = 1
	}
	_, err := s.conn.Exec(`DELETE FROM snapshots WHERE id NOT IN (
		SELECT id FROM snapshots ORDER BY fetched_at DESC, id DESC LIMIT ?)`, keep)
	if err != nil {
		return errors.Storage("prune snapshots", err)
	}
	// quotes cascade only with foreign keys on; sweep orphans explicitly
	_, err = s.conn.Exec(
		"DELETE FROM quotes WHERE snapshot_id NOT IN (SELECT id FROM snapshots)")
	if err != nil {
		return errors.Storage("prune quotes", err)
	}
	return nil
}
