package config

// Merge deep-merges overrides onto base and returns the effective
// configuration. Neither input is mutated.
//
// For each override key: when both sides hold mappings they are merged
// recursively; otherwise the override value replaces the base value
// entirely, including a mapping replaced by a scalar or the reverse. Keys
// only present in base pass through, keys only present in overrides are
// added. Override keys containing dots are treated as paths, one nesting
// level per segment, and intermediate mappings are created as needed.
//
// Keys are applied in lexical order, so {"a": {...}} is merged before
// {"a.b": ...} and the more specific path wins.
func Merge(base, overrides Config) Config {
	out := Clone(base)
	if out == nil {
		out = Config{}
	}
	mergeInto(out, overrides)
	return out
}

// SetPath returns a copy of c with value stored at the dotted path. A
// mapping value is merged with whatever mapping already lives at path.
func SetPath(c Config, path string, value any) Config {
	return Merge(c, Config{path: value})
}

// MergeAll folds Merge over the given layers from left to right.
func MergeAll(layers ...Config) Config {
	out := Config{}
	for _, l := range layers {
		out = Merge(out, l)
	}
	return out
}

func mergeInto(dst map[string]any, overrides map[string]any) {
	for _, key := range SortedKeys(overrides) {
		mergeAt(dst, SplitPath(key), overrides[key])
	}
}

// mergeAt applies value at path inside dst. dst is always owned by the
// caller (a fresh clone), so it is safe to modify in place.
func mergeAt(dst map[string]any, path []string, value any) {
	key := path[0]
	if len(path) > 1 {
		child, ok := asMap(dst[key])
		if !ok {
			child = make(map[string]any)
		}
		dst[key] = child
		mergeAt(child, path[1:], value)
		return
	}

	if ov, ok := asMap(value); ok {
		if bv, ok := asMap(dst[key]); ok {
			mergeInto(bv, ov)
			dst[key] = bv
			return
		}
		fresh := make(map[string]any, len(ov))
		mergeInto(fresh, ov)
		dst[key] = fresh
		return
	}
	dst[key] = cloneValue(value)
}
