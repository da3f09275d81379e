// Package scope implements the hierarchical value registry: a tree of named
// scopes where lookups fall back to ancestors and writes always target the
// exact scope requested.
//
// Scopes live in a flat arena and are addressed by index, so the parent
// chain is acyclic by construction and destroying a scope is an index
// invalidation, not a reference-counted teardown. A generation counter per
// slot makes stale IDs fail loudly instead of aliasing a reused slot.
package scope

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/path"
	"github.com/vk/flowgrid/internal/value"
)

var (
	// ErrScopeNotFound is returned when an ID refers to a destroyed or
	// never-created scope.
	ErrScopeNotFound = errors.New("scope not found")
	// ErrPathNotFound is returned when a path resolves to no entry in the
	// scope or any of its ancestors.
	ErrPathNotFound = errors.New("path not found")
	// ErrTypeMismatch is returned by typed getters when the entry exists
	// but holds an incompatible value kind.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrHasChildren is returned when destroying a scope that still has
	// live child scopes.
	ErrHasChildren = errors.New("scope has live children")
	// ErrRootScope is returned when attempting to destroy the root scope.
	ErrRootScope = errors.New("cannot destroy root scope")
)

// ID is an opaque handle naming one scope. The zero ID is the root scope of
// the registry that created it.
type ID struct {
	index int
	gen   uint64
}

// String returns a diagnostic representation of the ID.
func (id ID) String() string {
	return fmt.Sprintf("scope[%d@%d]", id.index, id.gen)
}

// slot is one arena cell. A dead slot keeps its generation so stale IDs can
// be rejected; the generation is bumped when the slot is reused.
type slot struct {
	gen      uint64
	live     bool
	parent   int // arena index of the parent, -1 for the root
	children int
	entries  map[string]cty.Value
}

// Registry stores named values per scope and resolves lookups through the
// ancestor chain. It is not safe for concurrent use; the runtime owns it
// exclusively for the duration of a tick.
type Registry struct {
	slots []slot
	free  []int
}

// NewRegistry creates a registry with a single live root scope.
func NewRegistry() *Registry {
	r := &Registry{}
	r.slots = append(r.slots, slot{
		live:    true,
		parent:  -1,
		entries: make(map[string]cty.Value),
	})
	return r
}

// Root returns the ID of the root scope.
func (r *Registry) Root() ID {
	return ID{index: 0, gen: r.slots[0].gen}
}

// resolve maps an ID to its live slot.
func (r *Registry) resolve(id ID) (*slot, error) {
	if id.index < 0 || id.index >= len(r.slots) {
		return nil, fmt.Errorf("%w: %s", ErrScopeNotFound, id)
	}
	s := &r.slots[id.index]
	if !s.live || s.gen != id.gen {
		return nil, fmt.Errorf("%w: %s", ErrScopeNotFound, id)
	}
	return s, nil
}

// Alive reports whether the ID refers to a live scope.
func (r *Registry) Alive(id ID) bool {
	_, err := r.resolve(id)
	return err == nil
}

// CreateChild creates a new empty scope under the given parent.
func (r *Registry) CreateChild(parent ID) (ID, error) {
	if _, err := r.resolve(parent); err != nil {
		return ID{}, err
	}

	var index int
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
		// Reusing a slot bumps its generation so IDs naming the previous
		// occupant no longer resolve.
		s := &r.slots[index]
		s.gen++
		s.live = true
		s.parent = parent.index
		s.children = 0
		s.entries = make(map[string]cty.Value)
	} else {
		index = len(r.slots)
		r.slots = append(r.slots, slot{
			live:    true,
			parent:  parent.index,
			entries: make(map[string]cty.Value),
		})
	}

	// Re-index after the append above; growing the arena may have moved it.
	r.slots[parent.index].children++
	return ID{index: index, gen: r.slots[index].gen}, nil
}

// Destroy tears down a leaf scope, removing all of its entries. Destroying
// a scope with live children or the root scope is an error and removes
// nothing.
func (r *Registry) Destroy(id ID) error {
	s, err := r.resolve(id)
	if err != nil {
		return err
	}
	if s.parent == -1 {
		return ErrRootScope
	}
	if s.children > 0 {
		return fmt.Errorf("%w: %s has %d", ErrHasChildren, id, s.children)
	}

	r.slots[s.parent].children--
	s.live = false
	s.entries = nil
	r.free = append(r.free, id.index)
	return nil
}

// Parent returns the parent of the given scope. The second return is false
// for the root scope.
func (r *Registry) Parent(id ID) (ID, bool, error) {
	s, err := r.resolve(id)
	if err != nil {
		return ID{}, false, err
	}
	if s.parent == -1 {
		return ID{}, false, nil
	}
	return ID{index: s.parent, gen: r.slots[s.parent].gen}, true, nil
}

// Get resolves a path starting at the given scope. If the path is absent,
// each ancestor is searched in order; the lookup fails with ErrPathNotFound
// only when the root is exhausted.
func (r *Registry) Get(id ID, p path.Path) (cty.Value, error) {
	if p.IsZero() {
		return cty.NilVal, fmt.Errorf("%w: zero path", ErrPathNotFound)
	}
	s, err := r.resolve(id)
	if err != nil {
		return cty.NilVal, err
	}

	key := p.String()
	for {
		if v, ok := s.entries[key]; ok {
			return v, nil
		}
		if s.parent == -1 {
			return cty.NilVal, fmt.Errorf("%w: %s", ErrPathNotFound, key)
		}
		s = &r.slots[s.parent]
	}
}

// Set creates or overwrites an entry in exactly the given scope. It never
// writes through to an ancestor.
func (r *Registry) Set(id ID, p path.Path, v cty.Value) error {
	if p.IsZero() {
		return fmt.Errorf("%w: zero path", ErrPathNotFound)
	}
	s, err := r.resolve(id)
	if err != nil {
		return err
	}
	s.entries[p.String()] = v
	return nil
}

// Remove deletes an entry from exactly the given scope. Removing an entry
// that only exists in an ancestor fails with ErrPathNotFound.
func (r *Registry) Remove(id ID, p path.Path) error {
	s, err := r.resolve(id)
	if err != nil {
		return err
	}
	key := p.String()
	if _, ok := s.entries[key]; !ok {
		return fmt.Errorf("%w: %s", ErrPathNotFound, key)
	}
	delete(s.entries, key)
	return nil
}

// Entries returns a copy of the entries stored directly in the given scope,
// keyed by canonical path string. Ancestors are not consulted.
func (r *Registry) Entries(id ID) (map[string]cty.Value, error) {
	s, err := r.resolve(id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]cty.Value, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out, nil
}

// Visible returns the entries visible from the given scope: its own entries
// plus every ancestor's, with entries in nearer scopes shadowing farther
// ones. Keys are canonical path strings.
func (r *Registry) Visible(id ID) (map[string]cty.Value, error) {
	s, err := r.resolve(id)
	if err != nil {
		return nil, err
	}
	out := make(map[string]cty.Value)
	for {
		for k, v := range s.entries {
			if _, shadowed := out[k]; !shadowed {
				out[k] = v
			}
		}
		if s.parent == -1 {
			return out, nil
		}
		s = &r.slots[s.parent]
	}
}

// GetNumber resolves a path and coerces the result to a number.
func (r *Registry) GetNumber(id ID, p path.Path) (float64, error) {
	v, err := r.Get(id, p)
	if err != nil {
		return 0, err
	}
	f, err := value.AsNumber(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, p, err)
	}
	return f, nil
}

// GetText resolves a path and coerces the result to text.
func (r *Registry) GetText(id ID, p path.Path) (string, error) {
	v, err := r.Get(id, p)
	if err != nil {
		return "", err
	}
	s, err := value.AsText(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTypeMismatch, p, err)
	}
	return s, nil
}

// GetBool resolves a path and coerces the result to a boolean.
func (r *Registry) GetBool(id ID, p path.Path) (bool, error) {
	v, err := r.Get(id, p)
	if err != nil {
		return false, err
	}
	b, err := value.AsBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrTypeMismatch, p, err)
	}
	return b, nil
}

// IsDescendant reports whether child is the same scope as ancestor or lies
// below it in the scope tree.
func (r *Registry) IsDescendant(child, ancestor ID) (bool, error) {
	s, err := r.resolve(child)
	if err != nil {
		return false, err
	}
	if _, err := r.resolve(ancestor); err != nil {
		return false, err
	}

	index := child.index
	for {
		if index == ancestor.index {
			return true, nil
		}
		if s.parent == -1 {
			return false, nil
		}
		index = s.parent
		s = &r.slots[index]
	}
}
