package qsim

/*
StateEngine abstracts the compact state representation a trajectory runs
against. Every trajectory owns exactly one instance for its whole lifetime;
instances are never shared between workers, so implementations need no
internal locking.

The interface is deliberately small: it exposes only what the sampler needs
to drive a run, which keeps the heavyweight production backend and the dense
reference backend interchangeable.
*/
type StateEngine interface {
	// Apply advances the state by one circuit operation in program order.
	Apply(op Operation) error

	// ApplyMatrix applies a single-qubit operator at the given qubit. The
	// operator may be non-unitary (noise branches); the engine renormalizes.
	// Returns ErrNullState when the operator annihilates the state.
	ApplyMatrix(m GateMatrix, qubit int) error

	// BasisProbability returns the probability of measuring the given
	// computational-basis state.
	BasisProbability(index uint64) float64

	// Approximate shrinks the state representation under the fidelity
	// budget and reports whether anything was actually removed.
	Approximate(fidelity float64) bool

	// Measure samples a computational-basis outcome with the trajectory's
	// own random stream and collapses the state onto it.
	Measure(rng *RNG) string

	// Dispose releases the state. The engine must not be used afterwards.
	Dispose()
}

// EngineFactory allocates one private engine per trajectory. An allocation
// error is fatal to the owning worker and fails the whole invocation.
type EngineFactory func(qubits int) (StateEngine, error)
