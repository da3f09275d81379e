package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/pin"
)

// Validate performs a strict parity check between kind manifests and the Go
// implementations registered in the catalog: every manifest must match a
// registered kind, and every declared pin must agree on presence and type.
// All mismatches are reported together.
func (c *Catalog) Validate(ctx context.Context, manifests map[string]*KindManifest) error {
	logger := ctxlog.FromContext(ctx)
	var errs *multierror.Error

	for name, km := range manifests {
		k, ok := c.kinds[name]
		if !ok {
			errs = multierror.Append(errs, fmt.Errorf("kind %q: manifest has no registered Go implementation", name))
			continue
		}
		errs = multierror.Append(errs, checkPins(name, "input", km.Inputs, k.Inputs())...)
		errs = multierror.Append(errs, checkPins(name, "output", km.Outputs, k.Outputs())...)
	}

	for name := range c.kinds {
		if _, ok := manifests[name]; !ok {
			logger.Warn("Registered kind has no manifest; UI metadata will be minimal.", "kind", name)
		}
	}

	return errs.ErrorOrNil()
}

// checkPins compares one direction of a kind's pin surface against its
// manifest declaration.
func checkPins(kindName, direction string, declared []*PinManifest, actual []pin.Spec) []error {
	var errs []error

	declaredByName := make(map[string]*PinManifest, len(declared))
	for _, pm := range declared {
		if _, dup := declaredByName[pm.Name]; dup {
			errs = append(errs, fmt.Errorf("kind %q: manifest declares %s %q twice", kindName, direction, pm.Name))
			continue
		}
		declaredByName[pm.Name] = pm
	}

	for _, spec := range actual {
		pm, ok := declaredByName[spec.Name]
		if !ok {
			errs = append(errs, fmt.Errorf("kind %q: Go implementation has %s %q which is not declared in manifest",
				kindName, direction, spec.Name))
			continue
		}
		declaredType, err := pin.ParseType(pm.Type)
		if err != nil {
			errs = append(errs, fmt.Errorf("kind %q, %s %q: %w", kindName, direction, pm.Name, err))
			continue
		}
		if declaredType != spec.Type {
			errs = append(errs, fmt.Errorf("kind %q, %s %q: type mismatch, manifest declares %s but Go implementation provides %s",
				kindName, direction, pm.Name, declaredType, spec.Type))
		}
	}

	for name := range declaredByName {
		if _, ok := pin.FindSpec(actual, name); !ok {
			errs = append(errs, fmt.Errorf("kind %q: manifest declares %s %q which is not found in Go implementation",
				kindName, direction, name))
		}
	}

	return errs
}
