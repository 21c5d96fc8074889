// Package quiz implements the dish quiz engine: category filtering, dish
// pool construction, question selection, choice sets and guess scoring.
//
// Everything here is synchronous and free of I/O apart from the Catalog
// it is handed. Callers serialize access; see app.Game.
package quiz

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// RandomSource yields uniform integers in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	Intn(n int) int
}

// NewRandomSource returns a deterministic source for seed.
func NewRandomSource(seed int64) RandomSource {
	return rand.New(rand.NewSource(seed))
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// shuffled returns a Fisher-Yates shuffled copy of in.
func shuffled[T any](in []T, rng RandomSource) []T {
	out := append([]T(nil), in...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
