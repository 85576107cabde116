package qsim

import "math/rand/v2"

/*
RNG is the private pseudo-random stream of a single trajectory. Streams are
derived from the pair (master seed, run id), so a trajectory's outcome is a
pure function of that pair and never depends on scheduling or worker count.
A stream is owned by exactly one trajectory and must not be shared.
*/
type RNG struct {
	*rand.Rand
}

// NewRNG derives an independent stream for one run id. The id is passed
// through a splitmix64 finalizer before seeding PCG, so that consecutive run
// ids land far apart in seed space.
func NewRNG(masterSeed, runID uint64) *RNG {
	return &RNG{rand.New(rand.NewPCG(masterSeed, splitmix64(runID)))}
}

// splitmix64 is the finalizer step of the SplitMix64 generator.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
