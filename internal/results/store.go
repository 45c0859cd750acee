package results

import (
	"context"
	"fmt"
)

// Store defines the persistence interface for result records.
// Abstracted so the service and tests can swap backends.
type Store interface {
	// Append adds one record at the end of the sequence, creating the
	// backing store on first use.
	Append(ctx context.Context, r Record) error
	// ReadAll returns every record in insertion order. A store that does
	// not exist yet reads as empty.
	ReadAll(ctx context.Context) ([]Record, error)
	// ReadByUser returns the records for one user id in insertion order.
	ReadByUser(ctx context.Context, userID string) ([]Record, error)
	// Close releases any held resources.
	Close() error
}

// Backend selects a Store implementation.
type Backend string

const (
	BackendCSV    Backend = "csv"
	BackendSQLite Backend = "sqlite"
)

// Options configures Open.
type Options struct {
	Backend    Backend
	CSVPath    string
	SQLitePath string
	Mode       Mode
}

// Open creates the configured store.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case BackendCSV, "":
		return NewCSVStore(opts.CSVPath, opts.Mode)
	case BackendSQLite:
		return NewSQLiteStore(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("results: unknown backend %q", opts.Backend)
	}
}
