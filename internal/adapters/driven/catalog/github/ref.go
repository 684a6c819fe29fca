package github

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/catmatch/internal/core/domain"
)

// Prefix marks a catalog reference hosted on GitHub.
const Prefix = "github:"

// Ref locates one file in a GitHub repository.
type Ref struct {
	Owner string
	Repo  string
	Path  string

	// Rev is a branch, tag, or commit SHA. Empty means the default branch.
	Rev string
}

// ParseRef parses "github:owner/repo/path/to/catalog.json[@rev]".
func ParseRef(ref string) (Ref, error) {
	rest, ok := strings.CutPrefix(ref, Prefix)
	if !ok {
		return Ref{}, fmt.Errorf("%w: %q is not a github reference", domain.ErrInvalidInput, ref)
	}

	var r Ref
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		rest, r.Rev = rest[:at], rest[at+1:]
		if r.Rev == "" {
			return Ref{}, fmt.Errorf("%w: empty revision in %q", domain.ErrInvalidInput, ref)
		}
	}

	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return Ref{}, fmt.Errorf("%w: expected github:owner/repo/path, got %q", domain.ErrInvalidInput, ref)
	}
	r.Owner, r.Repo, r.Path = parts[0], parts[1], parts[2]
	return r, nil
}

// String renders the reference back in its canonical form.
func (r Ref) String() string {
	s := Prefix + r.Owner + "/" + r.Repo + "/" + r.Path
	if r.Rev != "" {
		s += "@" + r.Rev
	}
	return s
}
