package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/transitionsim/internal/config"
	"github.com/vk/transitionsim/internal/ctxlog"
	"github.com/vk/transitionsim/internal/fsutil"
)

// Extension is the file extension handled by this loader.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	converter *Converter
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{converter: NewConverter()}
}

var _ config.Loader = (*Loader)(nil)

// Load parses every .hcl file found under paths and merges them, in path
// order, into one Model. Directories are searched recursively; missing
// paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.ResolvePaths(paths, Extension)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %v", config.ErrNoInputFiles, paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := config.NewModel()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		part, err := l.translateFile(ctx, &root)
		if err != nil {
			return nil, fmt.Errorf("in HCL file %s: %w", file, err)
		}
		model.Absorb(part)
	}

	logger.Debug("HCL loading complete.",
		"components", len(model.Simulation.Components),
		"scenarios", len(model.Scenarios),
		"monte_carlo", model.MonteCarlo != nil,
	)
	return model, nil
}

// translateFile converts the blocks of one file into a partial Model.
func (l *Loader) translateFile(ctx context.Context, root *fileRoot) (*config.Model, error) {
	part := config.NewModel()
	if root.Simulation != nil {
		part.Simulation = l.translateSimulation(root.Simulation)
	}

	seen := make(map[string]struct{})
	for _, c := range root.Components {
		if _, dup := seen[c.Name]; dup {
			return nil, fmt.Errorf("component %q configured more than once", c.Name)
		}
		seen[c.Name] = struct{}{}
		ns, err := l.translateComponent(ctx, c)
		if err != nil {
			return nil, err
		}
		part.Base = config.Merge(part.Base, ns)
	}

	names := make(map[string]struct{})
	for _, s := range root.Scenarios {
		if _, dup := names[s.Name]; dup {
			return nil, fmt.Errorf("scenario %q declared more than once", s.Name)
		}
		names[s.Name] = struct{}{}
		spec, err := l.translateScenario(ctx, s)
		if err != nil {
			return nil, err
		}
		part.Scenarios = append(part.Scenarios, spec)
	}

	if root.MonteCarlo != nil {
		mc, err := l.translateMonteCarlo(ctx, root.MonteCarlo)
		if err != nil {
			return nil, err
		}
		part.MonteCarlo = mc
	}
	return part, nil
}
