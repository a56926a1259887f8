// Package blobstore persists small opaque values under string keys.
package blobstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Store is a key-value store for serialized collections.
type Store interface {
	// Get returns the value stored under key, or nil when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend.
	Close() error
}

// Driver represents a storage backend type.
type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverSQLite   Driver = "sqlite"
	DriverRedis    Driver = "redis"
	DriverPostgres Driver = "postgres"
)

// IsValid returns true if the driver is a known type.
func (d Driver) IsValid() bool {
	switch d {
	case DriverMemory, DriverSQLite, DriverRedis, DriverPostgres:
		return true
	default:
		return false
	}
}

// Config holds storage configuration.
type Config struct {
	Driver Driver

	// SQLitePath is the database file used by DriverSQLite.
	// Defaults to ~/.dosewise/data.db
	SQLitePath string

	// RedisURL is the connection string used by DriverRedis.
	RedisURL string

	// DatabaseURL is the connection string used by DriverPostgres.
	DatabaseURL string

	// Namespace prefixes every redis key.
	Namespace string
}

// Open creates a store based on configuration.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case DriverMemory, "":
		return NewMemoryStore(), nil
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = DefaultSQLitePath()
		}
		return NewSQLiteStore(ctx, path)
	case DriverRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.Namespace)
	case DriverPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}

// DefaultSQLitePath returns the default SQLite database path.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".dosewise", "data.db")
}

func ensureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
