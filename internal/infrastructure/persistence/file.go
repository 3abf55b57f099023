package persistence

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/gzip"

	"github.com/prosperva/gridstate/internal/shared/types"
)

const fileExt = ".session.gz"

// FileAdapter persists one session's payload as a gzip-compressed JSON
// file under a state directory. A fresh session id has no file, so a new
// session always starts empty; the same id finds its file again after a
// client reload or a service restart.
type FileAdapter struct {
	dir       string
	sessionID string
}

// NewFileAdapter creates an adapter bound to one session's file. The
// state directory is created on demand by Save.
func NewFileAdapter(dir, sessionID string) *FileAdapter {
	return &FileAdapter{dir: dir, sessionID: sessionID}
}

// Path returns the backing file path for this session.
func (f *FileAdapter) Path() string {
	return filepath.Join(f.dir, f.sessionID+fileExt)
}

// Load reads and decodes the session file.
func (f *FileAdapter) Load() (*types.SessionPayload, error) {
	data, err := os.ReadFile(f.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open session file: %w", err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress session file: %w", err)
	}

	var payload types.SessionPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode session payload: %w", err)
	}
	return &payload, nil
}

// Save encodes and writes the payload atomically (temp file + rename), so
// a crash mid-write never leaves a truncated file behind.
func (f *FileAdapter) Save(payload *types.SessionPayload) error {
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode session payload: %w", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return fmt.Errorf("failed to compress session payload: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to compress session payload: %w", err)
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, f.sessionID+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Remove deletes the session file. Missing files are not an error.
func (f *FileAdapter) Remove() error {
	if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
