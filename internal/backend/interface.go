// Package backend picks and opens the storage.Store named in the
// configuration.
package backend

import (
	"context"
	"slices"

	"fintrack/internal/storage"
)

// CleanupFunc releases what a backend holds open.
type CleanupFunc func() error

type BackendResult struct {
	Store   storage.Store
	Cleanup CleanupFunc
}

// Factory creates stores from a Config.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// Memory: directory with optional <key>.json seed documents
	DataDirectory string

	// SQLite
	SQLiteDBPath string

	// Postgres
	DatabaseURL string
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	return slices.Contains(GetBackendTypes(), bt)
}
