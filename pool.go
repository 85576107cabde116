package qsim

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/theapemachine/errnie"
)

/*
Simulator estimates execution statistics of a quantum circuit under a
probabilistic gate-error model. It repeatedly samples independent noisy
trajectories on a fixed-size worker pool and merges their outcomes.

Key properties:
  - Static partitioning: run ids are assigned to workers before dispatch,
    so results are reproducible for a given master seed regardless of
    worker count or interleaving.
  - No partial results: the first worker failure fails the whole
    invocation; nothing is surfaced before the join barrier.
  - No cancellation: a started trajectory runs to completion; the only
    coarse control is the configured run count.
*/
type Simulator struct {
	circuit    *Circuit
	config     *Config
	noise      *NoiseModel
	properties []Property
	sampler    *TrajectorySampler
	seed       uint64
	metrics    *Metrics

	mu  sync.Mutex
	agg *Aggregate
}

// SimulatorOption configures optional simulator behavior.
type SimulatorOption func(*Simulator)

// WithSeed fixes the master seed, making the full invocation reproducible.
func WithSeed(seed uint64) SimulatorOption {
	return func(s *Simulator) { s.seed = seed }
}

// WithEngineFactory substitutes the state backend, e.g. a decision-diagram
// engine in place of the dense reference backend.
func WithEngineFactory(factory EngineFactory) SimulatorOption {
	return func(s *Simulator) { s.sampler.factory = factory }
}

// NewSimulator validates the configuration eagerly and wires the sampler.
// Invalid values abort construction; they are never clamped.
func NewSimulator(circuit *Circuit, config *Config, opts ...SimulatorOption) (*Simulator, error) {
	if circuit == nil || circuit.Qubits <= 0 {
		return nil, configErrorf("circuit", "a circuit with at least one qubit is required")
	}
	if config == nil {
		config = NewConfig()
	}
	if config.RunCount <= 0 {
		return nil, configErrorf("runCount", "must be larger than 0, got %d", config.RunCount)
	}
	if config.StepInterval <= 0 {
		return nil, configErrorf("stepInterval", "must be larger than 0, got %d", config.StepInterval)
	}
	if config.StepFidelity <= 0 || config.StepFidelity > 1 {
		return nil, configErrorf("stepFidelity", "must be in (0,1], got %v", config.StepFidelity)
	}

	noise, err := NewNoiseModel(config.BaseNoiseProbability, config.AmplitudeDampingProbability,
		config.MultiQubitFactor, config.NoiseEffects)
	if err != nil {
		return nil, err
	}

	properties, err := ParseRecordedProperties(config.RecordedProperties, circuit.Qubits)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		circuit:    circuit,
		config:     config,
		noise:      noise,
		properties: properties,
		seed:       rand.Uint64(),
		metrics:    newMetrics(config.StepFidelity),
	}
	s.sampler = NewTrajectorySampler(circuit, noise, properties,
		config.StepInterval, config.StepFidelity, NewStateEngine)

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the simulation by method, enabled effects and circuit.
func (s *Simulator) Name() string {
	return "stoch_" + s.noise.EffectsString() + "_" + s.circuit.Name
}

// NumQubits returns the circuit register width.
func (s *Simulator) NumQubits() int { return s.circuit.Qubits }

// NumOps returns the circuit length in operations.
func (s *Simulator) NumOps() int { return s.circuit.NumOps() }

// RunBaseline executes one noiseless trajectory, purely for diagnostic
// timing. Its outcome never influences the noisy trajectories.
func (s *Simulator) RunBaseline() error {
	_, err := s.runBaseline()
	return err
}

// runBaseline runs the diagnostic trajectory and returns its wall time, so
// callers never have to read the metrics struct outside its lock.
func (s *Simulator) runBaseline() (time.Duration, error) {
	start := time.Now()
	if _, err := s.sampler.Run(s.seed, uint64(s.config.RunCount), false); err != nil {
		return 0, fmt.Errorf("baseline run: %w", err)
	}
	elapsed := time.Since(start)
	s.metrics.mu.Lock()
	s.metrics.PerfectRunTime = elapsed
	s.metrics.mu.Unlock()
	return elapsed, nil
}

// runAll partitions the configured run count across the worker pool,
// blocks on the join barrier and merges every trajectory record in run id
// order. It runs at most once per simulator; later calls reuse the result.
func (s *Simulator) runAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.agg != nil {
		return nil
	}

	perfect, err := s.runBaseline()
	if err != nil {
		return err
	}

	requested := uint64(s.config.RunCount)
	workerCount := availableParallelism(s.config.Reservation)
	if s.config.MaxParallelism > 0 && workerCount > s.config.MaxParallelism {
		workerCount = s.config.MaxParallelism
	}
	if uint64(workerCount) > requested {
		workerCount = int(requested)
	}

	blocks := partitionRuns(requested, workerCount)
	workers := make([]*Worker, len(blocks))

	errnie.Info(
		"%s dispatching %d runs across %d workers (seed %d)",
		s.Name(), requested, len(blocks), s.seed,
	)

	start := time.Now()
	var wg sync.WaitGroup
	for i, block := range blocks {
		workers[i] = &Worker{id: i, block: block, sampler: s.sampler, seed: s.seed}
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.run()
		}(workers[i])
	}
	wg.Wait()
	wall := time.Since(start)

	var busy time.Duration
	for _, w := range workers {
		if w.err != nil {
			return fmt.Errorf("stochastic invocation failed: %w", w.err)
		}
		busy += w.elapsed
	}

	// Blocks are in run id order, so folding them sequentially keeps the
	// aggregate bit-identical for any worker count.
	agg := NewAggregate(s.properties)
	for _, w := range workers {
		for _, record := range w.records {
			agg.Add(record)
		}
	}

	s.metrics.record(requested, agg.Approximations(),
		perfect, wall, busy/time.Duration(requested), len(blocks))
	s.agg = agg

	errnie.Info(
		"%s finished %d runs in %v (%d approximation checkpoints fired)",
		s.Name(), requested, wall, agg.Approximations(),
	)
	return nil
}

// StochSimulate runs all configured trajectories and returns the mean of
// each recorded property across runs, keyed by label.
func (s *Simulator) StochSimulate() (map[string]float64, error) {
	if err := s.runAll(); err != nil {
		return nil, err
	}
	return s.agg.MeanProperties(), nil
}

// Simulate runs all configured trajectories and draws shots independent
// samples with replacement from the aggregated measurement distribution.
func (s *Simulator) Simulate(shots int) (map[string]uint64, error) {
	if shots <= 0 {
		return nil, configErrorf("shots", "must be larger than 0, got %d", shots)
	}
	if err := s.runAll(); err != nil {
		return nil, err
	}
	// A dedicated stream id past the run id range keeps sampling draws
	// disjoint from every trajectory's stream.
	rng := NewRNG(s.seed, ^uint64(0))
	return s.agg.Sample(shots, rng), nil
}

// AdditionalStatistics exposes the invocation's diagnostic counters.
func (s *Simulator) AdditionalStatistics() map[string]string {
	return s.metrics.Export()
}
