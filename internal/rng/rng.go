// Package rng draws server-authoritative random outcomes for every game.
package rng

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("rng: invalid bound %d", n))
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("rng: crypto source failed: %v", err))
	}
	return int(v.Int64())
}

// Crypto returns a Source backed by crypto/rand.
func Crypto() Source {
	return cryptoSource{}
}

// Resolver picks indices from closed outcome spaces.
type Resolver struct {
	src Source
}

// New wraps src. A nil src falls back to Crypto().
func New(src Source) *Resolver {
	if src == nil {
		src = Crypto()
	}
	return &Resolver{src: src}
}

// Uniform returns an integer in [0, n).
func (r *Resolver) Uniform(n int) int {
	return r.src.Intn(n)
}

// WeightedPick draws in [0, total) and walks the segments subtracting
// weight until the remainder goes negative. Zero and negative weights are
// never selected. Returns -1 when no segment carries weight.
func (r *Resolver) WeightedPick(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return -1
	}
	rem := r.src.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		rem -= w
		if rem < 0 {
			return i
		}
	}
	return -1
}
