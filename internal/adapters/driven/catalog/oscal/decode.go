package oscal

import (
	"fmt"
	"io"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// maxDocumentSize bounds how much of a catalog is read into memory.
// The full NIST SP 800-53 catalog is roughly 10 MiB of JSON.
const maxDocumentSize = 256 << 20

// Decode reads a catalog document in the given format.
// An empty format sniffs the content.
func Decode(r io.Reader, format Format) (*domain.Catalog, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w: catalog exceeds %d bytes", domain.ErrInvalidInput, maxDocumentSize)
	}
	return DecodeBytes(data, format)
}

// DecodeBytes decodes an in-memory catalog document.
func DecodeBytes(data []byte, format Format) (*domain.Catalog, error) {
	if format == "" {
		format = Sniff(data)
	}
	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	case FormatXML:
		return decodeXML(data)
	default:
		return nil, fmt.Errorf("%w: catalog format %q", domain.ErrUnsupportedType, format)
	}
}
