package component

import (
	"github.com/vk/transitionsim/internal/config"
)

// RequireFloat reads a numeric key from a component's namespace.
func RequireFloat(component string, cfg config.Config, path string) (float64, error) {
	v, ok := config.Lookup(cfg, path)
	if !ok {
		return 0, Configf(component, path, "required key is missing")
	}
	f, ok := config.ToFloat(v)
	if !ok {
		return 0, Configf(component, path, "expected a number, got %T", v)
	}
	return f, nil
}

// OptionalFloat reads a numeric key, returning def when it is absent. A
// present key of the wrong type is still an error.
func OptionalFloat(component string, cfg config.Config, path string, def float64) (float64, error) {
	if _, ok := config.Lookup(cfg, path); !ok {
		return def, nil
	}
	return RequireFloat(component, cfg, path)
}

// RequireSection reads a nested mapping from a component's namespace.
func RequireSection(component string, cfg config.Config, path string) (config.Config, error) {
	v, ok := config.Lookup(cfg, path)
	if !ok {
		return nil, Configf(component, path, "required section is missing")
	}
	switch m := v.(type) {
	case config.Config:
		return m, nil
	case map[string]any:
		return config.Config(m), nil
	default:
		return nil, Configf(component, path, "expected a mapping, got %T", v)
	}
}

// RequireFloatMap reads a mapping whose leaves are all numeric, such as
// per-technology growth rates.
func RequireFloatMap(component string, cfg config.Config, path string) (map[string]float64, error) {
	section, err := RequireSection(component, cfg, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(section))
	for _, k := range config.SortedKeys(section) {
		f, ok := config.ToFloat(section[k])
		if !ok {
			return nil, Configf(component, path+config.PathSeparator+k, "expected a number, got %T", section[k])
		}
		out[k] = f
	}
	return out, nil
}

// RequireNamespace fails when a component was handed no configuration at
// all.
func RequireNamespace(component string, cfg config.Config) error {
	if cfg == nil {
		return Configf(component, "", "configuration namespace %q is missing", component)
	}
	return nil
}
