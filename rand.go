package jddffuzz

import (
	"math"
	"math/rand/v2"
)

// Rand is the source of randomness consumed by the generator. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// Uint64 returns 64 uniformly random bits.
	Uint64() uint64
	// IntN returns a uniform integer in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewRand returns a deterministic PCG-backed Rand for seed.
func NewRand(seed uint64) Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// RandomSeed returns a seed drawn from the runtime's random source.
func RandomSeed() uint64 { return rand.Uint64() }

// Sampling helpers. Fixed-width integers truncate 64 uniform bits, which is
// uniform over the full range of the narrower type.

func randBool(r Rand) bool       { return r.Uint64()&1 == 1 }
func randInt8(r Rand) int8       { return int8(r.Uint64()) }
func randUint8(r Rand) uint8     { return uint8(r.Uint64()) }
func randInt16(r Rand) int16     { return int16(r.Uint64()) }
func randUint16(r Rand) uint16   { return uint16(r.Uint64()) }
func randInt32(r Rand) int32     { return int32(r.Uint64()) }
func randUint32(r Rand) uint32   { return uint32(r.Uint64()) }
func randFloat32(r Rand) float32 { return math.Float32frombits(uint32(r.Uint64())) }
func randFloat64(r Rand) float64 { return math.Float64frombits(r.Uint64()) }

// randBetween returns a uniform integer in [lo, hi].
func randBetween(r Rand, lo, hi int) int { return lo + r.IntN(hi-lo+1) }

// choose picks one element uniformly. items must not be empty.
func choose[T any](r Rand, items []T) T { return items[r.IntN(len(items))] }
