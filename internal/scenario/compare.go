package scenario

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/vk/transitionsim/internal/config"
)

// Comparison lines up the flattened overrides of several scenarios.
type Comparison struct {
	Names []string
	// Overrides maps scenario name to its overrides keyed by dotted path.
	Overrides map[string]map[string]any
	// Paths is the union of all override paths in lexical order.
	Paths []string
	// Differing lists the paths whose value is not the same in every
	// scenario, including paths only some scenarios override.
	Differing []string
}

// Compare loads each named scenario from reg and reports where their
// overrides differ.
func Compare(ctx context.Context, reg Registry, names ...string) (*Comparison, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: compare needs at least two scenarios, got %d", ErrInvalidScenario, len(names))
	}
	cmpr := &Comparison{
		Names:     append([]string(nil), names...),
		Overrides: make(map[string]map[string]any, len(names)),
	}
	union := make(map[string]struct{})
	for _, name := range names {
		s, err := reg.Load(ctx, name)
		if err != nil {
			return nil, err
		}
		flat := config.Flatten(config.Expand(s.Overrides))
		cmpr.Overrides[name] = flat
		for p := range flat {
			union[p] = struct{}{}
		}
	}
	cmpr.Paths = config.SortedKeys(union)

	for _, p := range cmpr.Paths {
		first, firstOK := cmpr.Overrides[names[0]][p]
		for _, name := range names[1:] {
			v, ok := cmpr.Overrides[name][p]
			if ok != firstOK || !sameValue(first, v) {
				cmpr.Differing = append(cmpr.Differing, p)
				break
			}
		}
	}
	return cmpr, nil
}

// sameValue treats numbers of different Go types as equal when their
// float64 values match.
func sameValue(a, b any) bool {
	fa, aNum := config.ToFloat(a)
	fb, bNum := config.ToFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	return cmp.Equal(a, b)
}
