package service

import "math/rand"

// Sampler draws a random subset from a citation source pool. The random
// choice is behind this interface so tests can supply a deterministic
// source without changing production behavior.
type Sampler interface {
	// Sample returns min(n, len(pool)) elements chosen without replacement.
	Sample(pool []string, n int) []string
}

// randSampler is the production sampler backed by math/rand.
type randSampler struct {
	rng *rand.Rand
}

// NewSampler returns a sampler seeded from the shared math/rand source.
func NewSampler() Sampler {
	return &randSampler{rng: rand.New(rand.NewSource(rand.Int63()))}
}

// NewSeededSampler returns a sampler with a fixed seed for reproducible
// output.
func NewSeededSampler(seed int64) Sampler {
	return &randSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSampler) Sample(pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return []string{}
	}

	picked := make([]string, len(pool))
	copy(picked, pool)
	s.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}
