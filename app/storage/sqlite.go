package storage

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var _ Interface = &SQLiteStore{}

type SQLiteStore struct {
	db *sqlx.DB
}

// normalizeDSN accepts SQLAlchemy style URLs (sqlite+aiosqlite:///./x.db)
// next to plain paths and file: URIs.
func normalizeDSN(dsn string) string {
	if i := strings.Index(dsn, ":///"); i >= 0 && strings.HasPrefix(dsn, "sqlite") {
		return dsn[i+4:]
	}
	return dsn
}

// inMemory reports whether every connection to path would open its own
// private database.
func inMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	path := normalizeDSN(dsn)
	if !strings.HasPrefix(path, "file:") && !inMemory(path) {
		if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if inMemory(path) {
		// one shared connection, otherwise lookups land on an empty database
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db}
	if err = s.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS fertilizer (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			crop_name TEXT NOT NULL UNIQUE,
			n_value INTEGER NOT NULL,
			p_value INTEGER NOT NULL,
			k_value INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fertilizer_crop_name ON fertilizer (crop_name)`,
	}
	for _, stmt := range tables {
		if _, err := s.db.Exec(stmt); err != nil {
			log.Printf("❌ Error creating schema: %v", err)
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Seed inserts the crops that are not in the table yet and returns how many
// were added. Running it twice is a no-op.
func (s *SQLiteStore) Seed(ctx context.Context, records []FertilizerRecord) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, rec := range records {
		res, err := tx.NamedExecContext(ctx,
			`INSERT OR IGNORE INTO fertilizer (crop_name, n_value, p_value, k_value)
			 VALUES (:crop_name, :n_value, :p_value, :k_value)`, rec)
		if err != nil {
			return 0, fmt.Errorf("seed %s: %w", rec.CropName, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Printf("🌱 Adding %s...", rec.CropName)
			added++
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	log.Printf("✅ Database seeding complete! (%d new crops)", added)
	return added, nil
}

func selectAll(ctx context.Context, q sqlx.QueryerContext) ([]FertilizerRecord, error) {
	var records []FertilizerRecord
	if err := sqlx.SelectContext(ctx, q, &records,
		`SELECT id, crop_name, n_value, p_value, k_value FROM fertilizer ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("list fertilizers: %w", err)
	}
	return records, nil
}

// All returns every record in insertion order.
func (s *SQLiteStore) All(ctx context.Context) ([]FertilizerRecord, error) {
	return selectAll(ctx, s.db)
}

// FindFertilizer scans the whole table on a connection held only for this
// call and matches in process.
func (s *SQLiteStore) FindFertilizer(ctx context.Context, query string) (*FertilizerRecord, error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	records, err := selectAll(ctx, conn)
	if err != nil {
		return nil, err
	}
	return LookupFertilizer(records, query), nil
}
