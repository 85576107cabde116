package qsim

type Config struct {
	// StepInterval is the approximation checkpoint cadence, counted in
	// applied circuit operations.
	StepInterval int

	// StepFidelity is the per-checkpoint fidelity target in (0, 1].
	// A value of 1 disables approximation entirely.
	StepFidelity float64

	// NoiseEffects selects the enabled channel families as a string over
	// {A, P, D}. Character order defines selection priority.
	NoiseEffects string

	// BaseNoiseProbability is the per-qubit gate error probability.
	BaseNoiseProbability float64

	// AmplitudeDampingProbability overrides the derived damping
	// probability. Negative means "use the default", which is double the
	// base probability.
	AmplitudeDampingProbability float64

	// MultiQubitFactor scales error probabilities for multi-qubit gates.
	MultiQubitFactor float64

	// RunCount is the number of stochastic trajectories to execute.
	RunCount int

	// RecordedProperties selects the basis-state probabilities captured
	// per run, as a comma list of indices and lo-hi ranges, e.g. "0,2,4-7".
	RecordedProperties string

	// MaxParallelism caps the worker count. Zero means "derive from the
	// hardware", reserving Reservation threads for the rest of the system.
	MaxParallelism int
	Reservation    int
}

func NewConfig() *Config {
	return &Config{
		StepInterval:                1,
		StepFidelity:                1.0,
		NoiseEffects:                "APD",
		BaseNoiseProbability:        0.01,
		AmplitudeDampingProbability: -1,
		MultiQubitFactor:            2,
		RunCount:                    30,
		Reservation:                 defaultReservation,
	}
}
