// Package rng provides the seeded random source abstraction used by the
// Monte Carlo driver and by components that need stochastic behaviour.
//
// A Source is any math/rand/v2 compatible source. Sub-seeds for ensemble
// members are derived from a base seed and an iteration counter, so the
// stream an iteration sees depends only on (base seed, index) and never on
// the order in which workers pick iterations up.
package rng

import (
	"math/rand/v2"
)

// Source is the injectable random source. It is satisfied by every
// math/rand/v2 source and by deterministic fakes in tests.
type Source = rand.Source

// Factory builds a Source for a given seed.
type Factory func(seed uint64) Source

// New returns the default seeded source, a PCG generator.
func New(seed uint64) Source {
	return rand.NewPCG(seed, splitmix64(seed^0x9e3779b97f4a7c15))
}

// DeriveSeed returns the sub-seed for ensemble member index. It is a pure
// function of its inputs.
func DeriveSeed(base uint64, index int) uint64 {
	return splitmix64(base + uint64(index)*0x9e3779b97f4a7c15)
}

// Stream derives an independent seed for a named stream inside one
// ensemble member, e.g. one per sampled parameter.
func Stream(seed uint64, name string) uint64 {
	h := uint64(14695981039346656037)
	for i := 0; i < len(name); i++ {
		h ^= uint64(name[i])
		h *= 1099511628211
	}
	return splitmix64(seed ^ h)
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Constant is a Source that always yields the same value. It is useful in
// tests that need a predictable stream.
type Constant uint64

// Uint64 implements rand.Source.
func (c Constant) Uint64() uint64 { return uint64(c) }
