package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

var (
	ErrStoreCorrupt = errors.New("store file is corrupt")
)

// jsonFile persists a whole collection as one JSON array.
// Every save replaces the file atomically (temp file + rename).
type jsonFile[T any] struct {
	path string
}

func newJSONFile[T any](path string) (*jsonFile[T], error) {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &jsonFile[T]{path: path}, nil
}

// load returns nil when the file does not exist. A file that exists but
// cannot be read or parsed is an error: starting empty would drop data.
func (f *jsonFile[T]) load() ([]T, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var items []T
	err = json.Unmarshal(data, &items)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, f.path, err)
	}

	return items, nil
}

func (f *jsonFile[T]) save(items []T) error {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", f.path, err)
	}

	err = atomic.WriteFile(f.path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}

	return nil
}
