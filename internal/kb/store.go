package kb

import (
	"database/sql"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/HendryAvila/justifier/internal/axiom"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// ─── Config ──────────────────────────────────────────────────────────────────

// Config holds knowledge-base store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration for the store.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".justifier")}
}

// ─── Store ───────────────────────────────────────────────────────────────────

// StoredUnit is the persisted form of a unit.
type StoredUnit struct {
	Name    string
	Active  bool
	Axioms  []axiom.Axiom
	Deleted bool
}

// Store persists units and their axioms in SQLite.
type Store struct {
	db    *sql.DB
	cfg   Config
	hooks storeHooks
}

type storeHooks struct {
	beginTx func(db *sql.DB) (*sql.Tx, error)
	commit  func(tx *sql.Tx) error
}

func (s *Store) beginTxHook() (*sql.Tx, error) {
	if s.hooks.beginTx != nil {
		return s.hooks.beginTx(s.db)
	}
	return s.db.Begin()
}

func (s *Store) commitHook(tx *sql.Tx) error {
	if s.hooks.commit != nil {
		return s.hooks.commit(tx)
	}
	return tx.Commit()
}

// NewStore creates the data directory if needed, opens SQLite with WAL mode,
// and runs migrations.
func NewStore(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, errors.Wrap(err, "kb: create data dir")
	}

	dbPath := filepath.Join(cfg.DataDir, "kb.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "kb: open database")
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "kb: pragma %q", p)
		}
	}

	s := &Store{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "kb: migration")
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ─── Migrations ──────────────────────────────────────────────────────────────

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS units (
			name       TEXT PRIMARY KEY,
			active     INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS axioms (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			unit       TEXT NOT NULL REFERENCES units(name) ON DELETE CASCADE,
			axiom_key  TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			UNIQUE(unit, axiom_key)
		);

		CREATE INDEX IF NOT EXISTS idx_axioms_unit ON axioms(unit);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ─── Units ───────────────────────────────────────────────────────────────────

// Save writes the final state of every given unit in one transaction. A
// unit's stored axioms are replaced by u.Axioms; Deleted units are dropped
// with their axioms.
func (s *Store) Save(units []StoredUnit) error {
	tx, err := s.beginTxHook()
	if err != nil {
		return errors.Wrap(err, "kb: begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range units {
		if u.Deleted {
			if _, err := tx.Exec("DELETE FROM units WHERE name = ?", u.Name); err != nil {
				return errors.Wrapf(err, "kb: delete unit %q", u.Name)
			}
			continue
		}
		if _, err := tx.Exec(
			`INSERT INTO units (name, active) VALUES (?, ?)
			 ON CONFLICT(name) DO UPDATE SET active = excluded.active`,
			u.Name, u.Active,
		); err != nil {
			return errors.Wrapf(err, "kb: upsert unit %q", u.Name)
		}
		if _, err := tx.Exec("DELETE FROM axioms WHERE unit = ?", u.Name); err != nil {
			return errors.Wrapf(err, "kb: clear unit %q", u.Name)
		}
		for _, a := range u.Axioms {
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO axioms (unit, axiom_key) VALUES (?, ?)",
				u.Name, a.Key(),
			); err != nil {
				return errors.Wrapf(err, "kb: insert axiom into %q", u.Name)
			}
		}
	}

	if err := s.commitHook(tx); err != nil {
		return errors.Wrap(err, "kb: commit")
	}
	return nil
}

// Load returns every stored unit with its axioms, units ordered by name and
// axioms by insertion.
func (s *Store) Load() ([]StoredUnit, error) {
	rows, err := s.db.Query("SELECT name, active FROM units ORDER BY name")
	if err != nil {
		return nil, errors.Wrap(err, "kb: list units")
	}
	var units []StoredUnit
	for rows.Next() {
		var u StoredUnit
		if err := rows.Scan(&u.Name, &u.Active); err != nil {
			_ = rows.Close()
			return nil, errors.Wrap(err, "kb: scan unit")
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for i := range units {
		axs, err := s.loadAxioms(units[i].Name)
		if err != nil {
			return nil, err
		}
		units[i].Axioms = axs
	}
	return units, nil
}

func (s *Store) loadAxioms(unit string) ([]axiom.Axiom, error) {
	rows, err := s.db.Query("SELECT axiom_key FROM axioms WHERE unit = ? ORDER BY id", unit)
	if err != nil {
		return nil, errors.Wrapf(err, "kb: list axioms of %q", unit)
	}
	defer func() { _ = rows.Close() }()

	var out []axiom.Axiom
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, errors.Wrap(err, "kb: scan axiom")
		}
		a, err := axiom.Parse(key)
		if err != nil {
			return nil, errors.Wrapf(err, "kb: stored axiom in %q", unit)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
