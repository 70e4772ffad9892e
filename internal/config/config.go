package config

import (
	"sort"
	"strings"
)

// PathSeparator separates nesting levels in a dotted configuration path.
const PathSeparator = "."

// Config is a nested configuration mapping.
type Config map[string]any

// Clone returns a deep copy of c. Nested Config values are converted to
// map[string]any and slices are copied element by element.
func Clone(c Config) Config {
	if c == nil {
		return nil
	}
	return Config(cloneMap(c))
}

// Section returns a deep copy of the mapping stored under name, or nil when
// the key is absent or does not hold a mapping.
func (c Config) Section(name string) Config {
	m, ok := asMap(c[name])
	if !ok {
		return nil
	}
	return Config(cloneMap(m))
}

// Has reports whether the dotted path resolves to a value.
func (c Config) Has(path string) bool {
	_, ok := Lookup(c, path)
	return ok
}

// Lookup resolves a dotted path. The returned value is a deep copy.
func Lookup(c Config, path string) (any, bool) {
	var cur any = map[string]any(c)
	for _, seg := range SplitPath(path) {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cloneValue(cur), true
}

// SplitPath splits a dotted path into its segments. A key containing an
// empty segment ("a..b", ".a") is not a path and is returned as a single
// literal segment.
func SplitPath(path string) []string {
	if !strings.Contains(path, PathSeparator) {
		return []string{path}
	}
	segs := strings.Split(path, PathSeparator)
	for _, s := range segs {
		if s == "" {
			return []string{path}
		}
	}
	return segs
}

// Flatten returns every leaf of c keyed by its dotted path. Empty mappings
// are kept as leaves so that they survive a round trip through Expand.
func Flatten(c Config) map[string]any {
	out := make(map[string]any)
	flattenInto(out, "", c)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + PathSeparator + k
		}
		if child, ok := asMap(v); ok && len(child) > 0 {
			flattenInto(out, key, child)
			continue
		}
		out[key] = cloneValue(v)
	}
}

// Expand converts dotted keys anywhere in c into nested mappings.
func Expand(c Config) Config {
	return Merge(Config{}, c)
}

// ToFloat coerces the numeric types produced by the loaders to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Config:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case Config:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []float64:
		return append([]float64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
