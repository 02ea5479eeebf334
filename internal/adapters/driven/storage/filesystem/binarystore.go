// Package filesystem provides a BinaryStore over a directory of attachment
// files, one file per model ID.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/manuscript-validator/internal/core/domain"
	"github.com/custodia-labs/manuscript-validator/internal/core/ports/driven"
)

// Ensure BinaryStore implements the interface.
var _ driven.BinaryStore = (*BinaryStore)(nil)

// BinaryStore reads attachment payloads from a directory. A payload for
// "MPFigure:1" is stored as "MPFigure:1", or as "MPFigure_1" on file systems
// that do not allow colons.
type BinaryStore struct {
	dir string
}

// NewBinaryStore creates a store over dir. The directory does not need to
// exist; every lookup then reports no payload.
func NewBinaryStore(dir string) *BinaryStore {
	return &BinaryStore{dir: dir}
}

// Dir returns the directory the store reads from.
func (s *BinaryStore) Dir() string {
	return s.dir
}

// Get returns the payload stored for id, or nil when there is none.
func (s *BinaryStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return nil, fmt.Errorf("attachment id %q: %w", id, domain.ErrInvalidInput)
	}

	for _, name := range FileNames(id) {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading attachment %s: %w", id, err)
		}
	}
	return nil, nil
}

// FileNames returns the candidate file names for an attachment ID, in lookup
// order.
func FileNames(id string) []string {
	safe := strings.ReplaceAll(id, ":", "_")
	if safe == id {
		return []string{id}
	}
	return []string{id, safe}
}
