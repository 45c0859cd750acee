package results

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/HendryAvila/tgt/internal/assessment"
)

// Mode controls how CSVStore appends.
type Mode string

const (
	// ModeLocked serializes appends with an in-process mutex plus an
	// exclusive advisory lock on a sidecar ".lock" file, and writes a
	// single row with O_APPEND. Concurrent submissions never lose rows.
	ModeLocked Mode = "locked"

	// ModeLegacy reads the whole file, appends in memory, and rewrites the
	// file with no locking. Concurrent writers can lose updates; it exists
	// to reproduce the historical behaviour under a single writer.
	ModeLegacy Mode = "legacy"
)

// lockRetryDelay is how often LockContext polls for the file lock.
const lockRetryDelay = 10 * time.Millisecond

// CSVStore implements Store on a flat CSV file.
type CSVStore struct {
	path string
	mode Mode

	mu   sync.Mutex
	lock *flock.Flock
}

// NewCSVStore creates a CSV-backed store at path. The file itself is only
// created on the first Append.
func NewCSVStore(path string, mode Mode) (*CSVStore, error) {
	if path == "" {
		return nil, fmt.Errorf("results: csv path is required")
	}
	switch mode {
	case "":
		mode = ModeLocked
	case ModeLocked, ModeLegacy:
	default:
		return nil, fmt.Errorf("results: unknown csv mode %q", mode)
	}
	return &CSVStore{
		path: path,
		mode: mode,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the backing file path.
func (s *CSVStore) Path() string { return s.path }

// Mode returns the append mode.
func (s *CSVStore) Mode() Mode { return s.mode }

// Append adds one record using the configured mode.
func (s *CSVStore) Append(ctx context.Context, r Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("results: creating directory: %w", err)
	}
	r = r.canonical()
	if s.mode == ModeLegacy {
		return s.appendRewrite(r)
	}
	return s.appendLocked(ctx, r)
}

func (s *CSVStore) appendLocked(ctx context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("results: acquiring lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("results: could not acquire lock on %s", s.path)
	}
	defer func() { _ = s.lock.Unlock() }()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("results: opening %s: %w", s.path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("results: stat %s: %w", s.path, err)
	}

	// One buffered write per append keeps the row contiguous in the file.
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		_ = w.Write(Header)
	}
	_ = w.Write(r.Row())
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("results: encoding row: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmt.Errorf("results: writing %s: %w", s.path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("results: syncing %s: %w", s.path, err)
	}
	return f.Close()
}

// appendRewrite is the unprotected read-append-write cycle.
func (s *CSVStore) appendRewrite(r Record) error {
	records, err := s.readFile()
	if err != nil {
		return err
	}
	return s.writeAll(append(records, r))
}

// writeAll replaces the file with the header and the given records.
func (s *CSVStore) writeAll(records []Record) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(Header)
	for _, rec := range records {
		_ = w.Write(rec.Row())
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("results: encoding rows: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("results: writing %s: %w", s.path, err)
	}
	return nil
}

// ReadAll returns every record in file order. A missing file is empty.
func (s *CSVStore) ReadAll(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.readFile()
}

// ReadByUser returns the records for one user in file order. The id is
// matched in its stored form.
func (s *CSVStore) ReadByUser(ctx context.Context, userID string) ([]Record, error) {
	all, err := s.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return FilterByUser(all, assessment.NormalizeUserID(userID)), nil
}

// Close is a no-op; the file is opened per call.
func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) readFile() ([]Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("results: opening %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	return decodeCSV(f)
}

func decodeCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("results: reading header: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("results: unexpected header %v", header)
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("results: line %d: %w", line, err)
		}
		rec, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("results: line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
