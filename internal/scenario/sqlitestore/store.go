// Package sqlitestore provides a SQLite-backed scenario registry.
package sqlitestore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/transitionsim/internal/scenario"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

//go:embed schema.sql
var schema string

// Store persists scenarios in SQLite. Each row keeps the scenario's YAML
// document so overrides round-trip with their nesting intact.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save inserts sc, or upserts it when overwrite is set.
func (s *Store) Save(ctx context.Context, sc scenario.Scenario, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	doc, err := scenario.EncodeYAML(sc)
	if err != nil {
		return err
	}

	query := `INSERT INTO scenarios (name, description, document, updated_at) VALUES (?, ?, ?, ?)`
	if overwrite {
		query += ` ON CONFLICT(name) DO UPDATE SET
		             description = excluded.description,
		             document = excluded.document,
		             updated_at = excluded.updated_at`
	}
	_, err = s.sqlDB.ExecContext(ctx, query, sc.Name, sc.Description, string(doc), time.Now().UTC().UnixMilli())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %q", scenario.ErrDuplicateName, sc.Name)
		}
		return fmt.Errorf("save scenario %q: %w", sc.Name, err)
	}
	return nil
}

// Load returns one scenario by name.
func (s *Store) Load(ctx context.Context, name string) (scenario.Scenario, error) {
	if err := ctx.Err(); err != nil {
		return scenario.Scenario{}, err
	}
	if s == nil || s.sqlDB == nil {
		return scenario.Scenario{}, fmt.Errorf("storage is not configured")
	}

	var doc string
	err := s.sqlDB.QueryRowContext(ctx, `SELECT document FROM scenarios WHERE name = ?`, name).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scenario.Scenario{}, fmt.Errorf("%w: %q", scenario.ErrNotFound, name)
		}
		return scenario.Scenario{}, fmt.Errorf("load scenario %q: %w", name, err)
	}
	return scenario.DecodeYAML([]byte(doc))
}

// List returns all scenario names in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT name FROM scenarios ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan scenario name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return names, nil
}

// Delete removes one scenario.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", scenario.ErrNotFound, name)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ scenario.Registry = (*Store)(nil)
