// Package catalog is the node registration surface: the set of available
// node kinds, each exposing its kind name, pin signatures, and evaluate
// capability. The built-in kind library populates it at startup; the graph
// editor reads it to validate connections before they are added.
package catalog

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/flowgrid/internal/kind"
)

// Module is the interface kind-library packages implement to contribute
// their kinds to a catalog.
type Module interface {
	Register(c *Catalog)
}

// Catalog holds all registered node kinds for one application instance.
type Catalog struct {
	kinds map[string]kind.Kind
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{kinds: make(map[string]kind.Kind)}
}

// Register adds a kind. Registering two kinds under one name is a
// programmer error and panics.
func (c *Catalog) Register(k kind.Kind) {
	name := k.Name()
	if _, exists := c.kinds[name]; exists {
		panic(fmt.Sprintf("node kind %q already registered", name))
	}
	slog.Debug("Registering node kind.", "name", name)
	c.kinds[name] = k
}

// Lookup returns the kind registered under the given name.
func (c *Catalog) Lookup(name string) (kind.Kind, bool) {
	k, ok := c.kinds[name]
	return k, ok
}

// Names returns all registered kind names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.kinds))
	for name := range c.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered kinds.
func (c *Catalog) Len() int {
	return len(c.kinds)
}
