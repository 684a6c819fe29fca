package oscal

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// Format is a catalog serialisation.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(path.Ext(strings.ReplaceAll(p, "\\", "/"))) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xml":
		return FormatXML, nil
	default:
		return "", fmt.Errorf("%w: cannot infer catalog format from %q", domain.ErrUnsupportedType, p)
	}
}

// Sniff guesses the format from the first significant byte.
// YAML is the fallback, since it is a superset of JSON for our purposes.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '['):
		return FormatJSON
	case len(trimmed) > 0 && trimmed[0] == '<':
		return FormatXML
	default:
		return FormatYAML
	}
}
