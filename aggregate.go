package qsim

import (
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/stat/sampleuv"
)

/*
Aggregate merges per-trajectory records into the final statistics. Property
sequences merge by summing each ordinal position; measurement outcomes merge
by unioning bitstring keys and summing counts. Both operations are
commutative and associative, so the aggregated result does not depend on the
order records arrive in.

Workers never share an Aggregate during the parallel phase; records are fed
in after the join barrier. The mutex only guards late readers against a
concurrent re-run.
*/
type Aggregate struct {
	mu sync.RWMutex

	labels         []string
	propertySums   []float64
	outcomes       map[string]uint64
	runs           uint64
	approximations uint64
}

// NewAggregate prepares an empty aggregate over a fixed property plan.
func NewAggregate(properties []Property) *Aggregate {
	labels := make([]string, len(properties))
	for i, p := range properties {
		labels[i] = p.Label
	}
	return &Aggregate{
		labels:       labels,
		propertySums: make([]float64, len(properties)),
		outcomes:     make(map[string]uint64),
	}
}

// Add folds one trajectory record in. A property-count mismatch means the
// per-run ordinal scheme diverged, which is a programming error.
func (a *Aggregate) Add(record TrajectoryRecord) {
	if len(record.Properties) != len(a.propertySums) {
		panic(fmt.Sprintf("trajectory %d recorded %d properties, aggregate expects %d",
			record.RunID, len(record.Properties), len(a.propertySums)))
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i, v := range record.Properties {
		a.propertySums[i] += v
	}
	a.outcomes[record.Outcome]++
	a.approximations += uint64(record.Approximations)
	a.runs++
}

// Runs returns the number of records folded in so far.
func (a *Aggregate) Runs() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.runs
}

// Approximations returns the total count of checkpoints that fired.
func (a *Aggregate) Approximations() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.approximations
}

// MeanProperties returns the arithmetic mean of each recorded property
// across all runs, keyed by label.
func (a *Aggregate) MeanProperties() map[string]float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	means := make(map[string]float64, len(a.labels))
	if a.runs == 0 {
		return means
	}
	for i, label := range a.labels {
		means[label] = a.propertySums[i] / float64(a.runs)
	}
	return means
}

// Distribution returns a copy of the merged measurement-outcome counts.
func (a *Aggregate) Distribution() map[string]uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	dist := make(map[string]uint64, len(a.outcomes))
	for outcome, count := range a.outcomes {
		dist[outcome] = count
	}
	return dist
}

// Sample draws shots outcomes with replacement from the aggregated
// measurement distribution. The multinomial rule is explicit: each draw is
// an independent weighted pick over the observed bitstrings, so the returned
// counts always sum to exactly shots.
func (a *Aggregate) Sample(shots int, rng *RNG) map[string]uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	result := make(map[string]uint64)
	if shots <= 0 || len(a.outcomes) == 0 {
		return result
	}

	// Fixed iteration order keeps sampling reproducible for a given seed.
	bitstrings := make([]string, 0, len(a.outcomes))
	for outcome := range a.outcomes {
		bitstrings = append(bitstrings, outcome)
	}
	sort.Strings(bitstrings)

	weights := make([]float64, len(bitstrings))
	for i, outcome := range bitstrings {
		weights[i] = float64(a.outcomes[outcome])
	}

	for i := 0; i < shots; i++ {
		// sampleuv.Weighted consumes its weights on Take, so rebuild the
		// sampler per draw to sample with replacement.
		w := sampleuv.NewWeighted(weights, rng)
		idx, ok := w.Take()
		if !ok {
			break
		}
		result[bitstrings[idx]]++
	}
	return result
}
