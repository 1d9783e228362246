// Package randutil derives reproducible random streams from a single game seed.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(splitmix(u), splitmix(u+goldenRatio64)))
}

// ForStream returns an independent generator for stream n of a game seeded
// with seed. Each player draws from its own stream so no generator is shared
// between goroutines and a seed replays the same discard choices.
func ForStream(seed int64, n int) *rand.Rand {
	return New(int64(splitmix(uint64(seed) ^ splitmix(uint64(n)+goldenRatio64))))
}

// splitmix is the SplitMix64 finaliser
func splitmix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
