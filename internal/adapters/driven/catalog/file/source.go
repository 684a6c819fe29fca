// Package file loads catalogs from the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/catmatch/internal/adapters/driven/catalog/oscal"
	"github.com/custodia-labs/catmatch/internal/core/domain"
	"github.com/custodia-labs/catmatch/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.CatalogSource = (*Source)(nil)

// Prefix optionally marks a reference as a local path.
const Prefix = "file:"

// Source reads JSON, YAML, or XML catalogs from disk.
type Source struct{}

// NewSource creates a filesystem catalog source.
func NewSource() *Source {
	return &Source{}
}

// Name identifies the source.
func (s *Source) Name() string {
	return "file"
}

// Supports accepts any reference without a remote scheme.
func (s *Source) Supports(ref string) bool {
	if strings.HasPrefix(ref, Prefix) {
		return true
	}
	i := strings.Index(ref, ":")
	// A single letter before the colon is a Windows drive.
	return i < 0 || i == 1
}

// Load reads and decodes the catalog at ref.
func (s *Source) Load(ctx context.Context, ref string) (*domain.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Clean(strings.TrimPrefix(ref, Prefix))

	format, err := oscal.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: catalog file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat catalog: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}

	catalog, err := oscal.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return catalog, nil
}
