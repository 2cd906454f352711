package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// DefaultPath is the history file used when none is configured.
const DefaultPath = "price_history.json"

// FileStore keeps the price history in a single JSON file that is
// rewritten wholesale on every Save.
type FileStore struct {
	path string
	log  *slog.Logger
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used to report unreadable history files.
func WithFileLogger(l *slog.Logger) FileOption {
	return func(s *FileStore) {
		s.log = l
	}
}

// NewFileStore creates a FileStore at path. The file is created on the
// first Save.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	s := &FileStore{
		path: path,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the history file. A missing, empty or corrupt file yields an
// empty record so the first run and a damaged file both start fresh.
func (s *FileStore) Load(_ context.Context) (Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Info("no price history found, starting empty", "path", s.path)
		} else {
			s.log.Warn("price history unreadable, starting empty", "path", s.path, "error", err)
		}
		return Record{}, nil
	}

	r, err := Decode(data)
	if err != nil {
		s.log.Warn("price history corrupt, starting empty", "path", s.path, "error", err)
		return Record{}, nil
	}
	return r, nil
}

// Save atomically replaces the history file: the record is written to a
// temporary file in the same directory, synced, then renamed into place.
func (s *FileStore) Save(_ context.Context, r Record) (err error) {
	data, err := Encode(r)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp history file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("writing temp history file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close() //nolint:errcheck // sync error takes precedence
		return fmt.Errorf("syncing temp history file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp history file: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // history is meant to be human-inspectable
		return fmt.Errorf("setting history file mode: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing history file: %w", err)
	}
	return nil
}

// Ping verifies the history directory exists.
func (s *FileStore) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("checking history directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("history directory %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// Close is a no-op for file-backed history.
func (*FileStore) Close() {}
