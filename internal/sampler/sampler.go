// Package sampler provides the uniform shuffles and picks the gallery draws from.
package sampler

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// Sampler wraps a random source. It is safe for concurrent use.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Sampler with a fixed seed. Equal seeds give equal sequences.
func New(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// NewRandom creates a Sampler seeded from crypto/rand, falling back to the clock.
func NewRandom() *Sampler {
	return New(newSeed())
}

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Perm returns a uniformly random permutation of [0, n).
func (s *Sampler) Perm(n int) []int {
	if n <= 0 {
		return []int{}
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	s.mu.Lock()
	s.rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	s.mu.Unlock()
	return order
}

// Intn returns a uniform index in [0, n). n must be positive.
func (s *Sampler) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// Shuffle returns a uniformly shuffled copy of in. The input is never modified.
func Shuffle[T any](s *Sampler, in []T) []T {
	out := make([]T, len(in))
	for i, j := range s.Perm(len(in)) {
		out[i] = in[j]
	}
	return out
}

// Pick returns one uniformly chosen element of pool. ok is false for an empty pool.
func Pick[T any](s *Sampler, pool []T) (v T, ok bool) {
	if len(pool) == 0 {
		return v, false
	}
	return pool[s.Intn(len(pool))], true
}
