package qsim

import (
	"errors"
	"fmt"
)

/*
TrajectorySampler executes one independent noisy run of the full circuit
against a private state instance. Every draw a run makes comes from its own
(master seed, run id) stream, so the mapping run id -> outcome is fixed
before dispatch and identical for any worker count.

The sampler itself is read-only during the parallel phase: it holds the
shared circuit, the validated noise model and the property plan, all
immutable after construction, and is therefore safe for concurrent use by
every worker.
*/
type TrajectorySampler struct {
	circuit      *Circuit
	noise        *NoiseModel
	properties   []Property
	stepInterval int
	stepFidelity float64
	factory      EngineFactory
}

// NewTrajectorySampler wires a sampler over a fixed circuit and noise model.
func NewTrajectorySampler(circuit *Circuit, noise *NoiseModel, properties []Property,
	stepInterval int, stepFidelity float64, factory EngineFactory) *TrajectorySampler {
	return &TrajectorySampler{
		circuit:      circuit,
		noise:        noise,
		properties:   properties,
		stepInterval: stepInterval,
		stepFidelity: stepFidelity,
		factory:      factory,
	}
}

// Run executes a single trajectory. With noisy=false it performs the
// noiseless baseline run used for diagnostic timing.
func (ts *TrajectorySampler) Run(masterSeed, runID uint64, noisy bool) (TrajectoryRecord, error) {
	engine, err := ts.factory(ts.circuit.Qubits)
	if err != nil {
		return TrajectoryRecord{}, fmt.Errorf("run %d: %w", runID, err)
	}
	defer engine.Dispose()

	rng := NewRNG(masterSeed, runID)
	record := TrajectoryRecord{RunID: runID}

	injectNoise := noisy && ts.noise.Enabled()
	applied := 0

	for _, op := range ts.circuit.Ops {
		if err := engine.Apply(op); err != nil {
			return TrajectoryRecord{}, fmt.Errorf("run %d: %w", runID, err)
		}
		if op.Kind == KindBarrier {
			continue
		}
		applied++

		if injectNoise && op.NoiseEligible() {
			if err := ts.applyNoise(engine, op, rng); err != nil {
				return TrajectoryRecord{}, fmt.Errorf("run %d: %w", runID, err)
			}
		}

		if ts.stepInterval > 0 && applied%ts.stepInterval == 0 {
			if engine.Approximate(ts.stepFidelity) {
				record.Approximations++
			}
		}
	}

	record.Properties = make([]float64, len(ts.properties))
	for i, p := range ts.properties {
		if p.Ordinal != i {
			panic(fmt.Sprintf("recorded property ordinal mismatch: %d at position %d", p.Ordinal, i))
		}
		record.Properties[i] = engine.BasisProbability(p.Index)
	}

	record.Outcome = engine.Measure(rng)
	return record, nil
}

// applyNoise draws one uniform per enabled effect per touched qubit and
// applies the selected channel operator when the draw lands in the error
// branch. Amplitude damping additionally applies its no-jump operator on the
// no-error branch, since that branch deforms the state too.
func (ts *TrajectorySampler) applyNoise(engine StateEngine, op Operation, rng *RNG) error {
	multi := op.MultiQubit()
	for _, effect := range ts.noise.Effects() {
		for _, qubit := range op.Qubits() {
			draw := rng.Float64()
			inError := draw < ts.noise.ErrorProbability(effect, multi)

			switch {
			case effect == AmplitudeDamping && inError:
				jump := ts.noise.ChannelMatrix(ChannelAmplitudeDamping, multi)
				err := engine.ApplyMatrix(jump, qubit)
				if errors.Is(err, ErrNullState) {
					// The qubit carried no |1> amplitude; only the
					// no-jump branch is physically reachable.
					err = engine.ApplyMatrix(ts.noise.NoJumpMatrix(multi), qubit)
				}
				if err != nil {
					return err
				}
			case effect == AmplitudeDamping:
				if err := engine.ApplyMatrix(ts.noise.NoJumpMatrix(multi), qubit); err != nil {
					return err
				}
			case inError:
				channel := ts.noise.SelectErrorChannel(effect, draw, multi)
				if err := engine.ApplyMatrix(ts.noise.ChannelMatrix(channel, multi), qubit); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
