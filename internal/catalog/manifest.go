package catalog

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/flowgrid/internal/ctxlog"
	"github.com/vk/flowgrid/internal/fsutil"
)

// PinManifest declares a single pin in a kind manifest.
type PinManifest struct {
	Name        string     `hcl:"name,label"`
	Type        string     `hcl:"type"`
	Description string     `hcl:"description,optional"`
	Default     *cty.Value `hcl:"default,optional"`
}

// KindManifest is the HCL declaration of one node kind: the pin signatures
// and descriptions the UI presents, validated against the Go implementation
// at startup.
type KindManifest struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Inputs      []*PinManifest `hcl:"input,block"`
	Outputs     []*PinManifest `hcl:"output,block"`
}

// manifestFile is the top-level structure of a kind manifest file.
type manifestFile struct {
	Kinds []*KindManifest `hcl:"kind,block"`
}

// DecodeManifestFile parses and decodes a single kind manifest file.
func DecodeManifestFile(ctx context.Context, filePath string) ([]*KindManifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding kind manifest file.", "path", filePath)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse manifest file %s: %s", filePath, diags.Error())
	}

	var mf manifestFile
	if diags := gohcl.DecodeBody(file.Body, nil, &mf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode manifest file %s: %s", filePath, diags.Error())
	}

	logger.Debug("Decoded kind manifest file.", "path", filePath, "kinds_found", len(mf.Kinds))
	return mf.Kinds, nil
}

// DiscoverManifests scans a directory recursively for .hcl manifest files
// and returns the kind manifests they declare, keyed by kind name. A kind
// declared twice is overwritten with a warning, matching last-file-wins
// discovery semantics.
func DiscoverManifests(ctx context.Context, dirPath string) (map[string]*KindManifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting manifest discovery.", "path", dirPath)

	files, err := fsutil.FindFilesByExtension(dirPath, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("error finding kind manifests in %s: %w", dirPath, err)
	}

	manifests := make(map[string]*KindManifest)
	for _, file := range files {
		kinds, err := DecodeManifestFile(ctx, file)
		if err != nil {
			logger.Warn("Failed to decode kind manifest, skipping.", "path", file, "error", err)
			continue
		}
		for _, km := range kinds {
			if _, exists := manifests[km.Name]; exists {
				logger.Warn("Duplicate kind manifest found, overwriting.", "kind", km.Name, "path", file)
			}
			manifests[km.Name] = km
		}
	}

	logger.Debug("Manifest discovery finished.", "count", len(manifests))
	return manifests, nil
}
