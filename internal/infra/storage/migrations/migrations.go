// Package migrations применяет SQL схему сервиса, встроенную в бинарник
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed sql/*.sql
var files embed.FS

var (
	// ErrReadMigrations возвращается, когда встроенные файлы не читаются
	ErrReadMigrations = errors.New("migrations: failed to read embedded files")

	// ErrApply возвращается, когда миграция не применилась
	ErrApply = errors.New("migrations: failed to apply")
)

const createVersionsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Migration одна встроенная миграция
type Migration struct {
	Version string // имя файла без расширения, "0001_bookings"
	SQL     string
}

// List миграции в порядке применения
func List() ([]Migration, error) {
	entries, err := fs.ReadDir(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadMigrations, err)
	}

	migrations := make([]Migration, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		body, err := fs.ReadFile(files, "sql/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadMigrations, e.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version: strings.TrimSuffix(e.Name(), ".sql"),
			SQL:     string(body),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Apply применяет ещё не применённые миграции, каждую в своей транзакции.
// Возвращает версии, применённые этим вызовом.
func Apply(ctx context.Context, db *sql.DB) ([]string, error) {
	if _, err := db.ExecContext(ctx, createVersionsTable); err != nil {
		return nil, fmt.Errorf("%w: create schema_migrations: %v", ErrApply, err)
	}

	migrations, err := List()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range migrations {
		done, err := apply(ctx, db, m)
		if err != nil {
			return applied, err
		}
		if done {
			applied = append(applied, m.Version)
		}
	}
	return applied, nil
}

func apply(ctx context.Context, db *sql.DB, m Migration) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %s: begin: %v", ErrApply, m.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Блокировка на время транзакции, чтобы два migrate не применили одно и то же
	if _, err := tx.ExecContext(ctx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
		return false, fmt.Errorf("%w: %s: lock: %v", ErrApply, m.Version, err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: %s: check version: %v", ErrApply, m.Version, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrApply, m.Version, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
		return false, fmt.Errorf("%w: %s: record version: %v", ErrApply, m.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("%w: %s: commit: %v", ErrApply, m.Version, err)
	}
	return true, nil
}
