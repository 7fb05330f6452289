// Package storage owns the client state medium: where the session token,
// identity and cart live, and how concurrent client instances learn about
// each other's session changes.
//
// The medium's scope is a process-wide choice fixed at startup. In shared
// scope every instance opens the same SQLite file and session events are
// relayed over a broadcast channel; in isolated scope the database is
// in-memory and no instance reacts to another's writes.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/mkalvans/farmline/internal/client/migrations"
	"github.com/mkalvans/farmline/internal/client/repositories/state"
)

// Scope selects whether client state is shared across instances or kept
// per-process. Fixed at startup from configuration; never mutated.
type Scope string

const (
	ScopeShared   Scope = "shared"
	ScopeIsolated Scope = "isolated"
)

// ParseScope maps a raw config value to a Scope, defaulting to shared.
func ParseScope(s string) Scope {
	if s == string(ScopeIsolated) {
		return ScopeIsolated
	}
	return ScopeShared
}

// Medium is the key/value storage holding the persisted session state.
// Get returns (nil, nil) for an absent key.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// OpenDatabase opens the client state database for the given scope and runs
// the embedded goose migrations. Shared scope uses a file in stateDir so
// multiple instances see the same state; isolated scope is in-memory.
func OpenDatabase(ctx context.Context, scope Scope, stateDir string) (*sql.DB, error) {
	dsn := ":memory:"
	if scope == ScopeShared {
		dsn = filepath.Join(stateDir, "farmline.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate state database: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// SQLMedium adapts the state repository to the Medium interface.
type SQLMedium struct {
	repo state.Repository
}

func NewSQLMedium(repo state.Repository) *SQLMedium {
	return &SQLMedium{repo: repo}
}

func (m *SQLMedium) Get(ctx context.Context, key string) ([]byte, error) {
	return m.repo.Get(ctx, key)
}

func (m *SQLMedium) Set(ctx context.Context, key string, value []byte) error {
	return m.repo.Set(ctx, key, value)
}

func (m *SQLMedium) Delete(ctx context.Context, key string) error {
	return m.repo.Delete(ctx, key)
}
