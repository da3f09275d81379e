// Package path provides the dot-delimited addressing scheme for entries in
// the scope registry, e.g. "transform.position.x".
package path

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex validates a single segment of a path.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// Path is an ordered, non-empty sequence of name segments. It is immutable
// once constructed; deriving a child path produces a new Path.
type Path struct {
	segments []string
}

// Parse creates a Path from its canonical dotted string representation.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("path cannot be empty")
	}

	parts := strings.Split(raw, ".")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Path{}, fmt.Errorf("path %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(part) {
			return Path{}, fmt.Errorf("invalid path segment %q", part)
		}
		segments = append(segments, part)
	}
	return Path{segments: segments}, nil
}

// MustParse is Parse that panics on error, for compile-time-constant paths.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// New creates a Path from individual segments.
func New(segments ...string) (Path, error) {
	if len(segments) == 0 {
		return Path{}, fmt.Errorf("path cannot be empty")
	}
	return Parse(strings.Join(segments, "."))
}

// String serializes the Path into its canonical dotted representation.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// Child derives a new Path with one more trailing segment.
func (p Path) Child(name string) (Path, error) {
	if p.IsZero() {
		return Path{}, fmt.Errorf("cannot derive child of zero path")
	}
	if !segmentRegex.MatchString(name) {
		return Path{}, fmt.Errorf("invalid path segment %q", name)
	}
	segments := make([]string, 0, len(p.segments)+1)
	segments = append(segments, p.segments...)
	segments = append(segments, name)
	return Path{segments: segments}, nil
}

// Equal reports whether two paths have identical segments.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if other.segments[i] != s {
			return false
		}
	}
	return true
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsZero reports whether the path is the uninitialized zero value. A zero
// path is not a valid address.
func (p Path) IsZero() bool {
	return len(p.segments) == 0
}
