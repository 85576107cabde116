package qsim

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
)

// maxStateVectorQubits bounds the dense backend. 2^28 amplitudes is already
// 4 GiB; anything wider belongs on a decision-diagram backend.
const maxStateVectorQubits = 28

/*
StateVector is the dense reference backend. It stores all 2^n amplitudes
explicitly, which limits it to small registers but makes it an exact oracle
for testing the sampling machinery.
*/
type StateVector struct {
	amplitudes []complex128
	qubits     int
}

// NewStateVector allocates a register initialized to |0...0>.
func NewStateVector(qubits int) (*StateVector, error) {
	if qubits <= 0 || qubits > maxStateVectorQubits {
		return nil, fmt.Errorf("state vector allocation failed: %d qubits out of range [1,%d]",
			qubits, maxStateVectorQubits)
	}
	amps := make([]complex128, 1<<qubits)
	amps[0] = 1
	return &StateVector{amplitudes: amps, qubits: qubits}, nil
}

// NewStateEngine is the default EngineFactory.
func NewStateEngine(qubits int) (StateEngine, error) {
	return NewStateVector(qubits)
}

func (sv *StateVector) Apply(op Operation) error {
	switch op.Kind {
	case KindBarrier, KindMeasure:
		// Measurement markers are deferred to the terminal Measure call.
		return nil
	case KindReset:
		sv.applyReset(op.Targets[0])
		return nil
	}

	switch op.Gate {
	case "H":
		return sv.ApplyMatrix(GateMatrix{
			{complex(1/math.Sqrt2, 0), complex(1/math.Sqrt2, 0)},
			{complex(1/math.Sqrt2, 0), complex(-1/math.Sqrt2, 0)},
		}, op.Targets[0])
	case "X":
		return sv.ApplyMatrix(matrixPauliX, op.Targets[0])
	case "Y":
		return sv.ApplyMatrix(matrixPauliY, op.Targets[0])
	case "Z":
		return sv.ApplyMatrix(matrixPauliZ, op.Targets[0])
	case "S":
		return sv.ApplyMatrix(GateMatrix{{1, 0}, {0, 1i}}, op.Targets[0])
	case "SDG":
		return sv.ApplyMatrix(GateMatrix{{1, 0}, {0, -1i}}, op.Targets[0])
	case "T":
		return sv.ApplyMatrix(GateMatrix{{1, 0}, {0, cmplx.Exp(complex(0, math.Pi/4))}}, op.Targets[0])
	case "TDG":
		return sv.ApplyMatrix(GateMatrix{{1, 0}, {0, cmplx.Exp(complex(0, -math.Pi/4))}}, op.Targets[0])
	case "RX":
		c := complex(math.Cos(op.Param/2), 0)
		js := complex(0, -math.Sin(op.Param/2))
		return sv.ApplyMatrix(GateMatrix{{c, js}, {js, c}}, op.Targets[0])
	case "RY":
		c := complex(math.Cos(op.Param/2), 0)
		s := complex(math.Sin(op.Param/2), 0)
		return sv.ApplyMatrix(GateMatrix{{c, -s}, {s, c}}, op.Targets[0])
	case "RZ":
		phase := cmplx.Exp(complex(0, op.Param/2))
		return sv.ApplyMatrix(GateMatrix{{cmplx.Conj(phase), 0}, {0, phase}}, op.Targets[0])
	case "CX":
		sv.applyControlled(op.Control, op.Targets[0], matrixPauliX)
		return nil
	case "CZ":
		sv.applyControlled(op.Control, op.Targets[0], matrixPauliZ)
		return nil
	case "SWAP":
		sv.applySwap(op.Targets[0], op.Targets[1])
		return nil
	}
	return fmt.Errorf("unsupported gate %q", op.Gate)
}

// ApplyMatrix leaves the state untouched when the operator annihilates it,
// so callers can fall back to the complementary noise branch.
func (sv *StateVector) ApplyMatrix(m GateMatrix, qubit int) error {
	bit := uint64(1) << qubit
	n := uint64(len(sv.amplitudes))
	next := make([]complex128, n)
	for i := uint64(0); i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := sv.amplitudes[i], sv.amplitudes[j]
			next[i] = m[0][0]*a + m[0][1]*b
			next[j] = m[1][0]*a + m[1][1]*b
		}
	}
	prev := sv.amplitudes
	sv.amplitudes = next
	if err := sv.renormalize(); err != nil {
		sv.amplitudes = prev
		return err
	}
	return nil
}

func (sv *StateVector) applyControlled(control, target int, m GateMatrix) {
	cBit := uint64(1) << control
	tBit := uint64(1) << target
	n := uint64(len(sv.amplitudes))
	for i := uint64(0); i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			a, b := sv.amplitudes[i], sv.amplitudes[j]
			sv.amplitudes[i] = m[0][0]*a + m[0][1]*b
			sv.amplitudes[j] = m[1][0]*a + m[1][1]*b
		}
	}
}

func (sv *StateVector) applySwap(a, b int) {
	aBit := uint64(1) << a
	bBit := uint64(1) << b
	n := uint64(len(sv.amplitudes))
	for i := uint64(0); i < n; i++ {
		if i&aBit != 0 && i&bBit == 0 {
			j := (i &^ aBit) | bBit
			sv.amplitudes[i], sv.amplitudes[j] = sv.amplitudes[j], sv.amplitudes[i]
		}
	}
}

func (sv *StateVector) applyReset(qubit int) {
	bit := uint64(1) << qubit
	n := uint64(len(sv.amplitudes))

	prob0 := 0.0
	for i := uint64(0); i < n; i++ {
		if i&bit == 0 {
			a := sv.amplitudes[i]
			prob0 += real(a)*real(a) + imag(a)*imag(a)
		}
	}

	if prob0 > 0 {
		for i := uint64(0); i < n; i++ {
			if i&bit != 0 {
				sv.amplitudes[i] = 0
			}
		}
		sv.renormalize()
		return
	}

	// The qubit was deterministically |1>; move its amplitude mass to |0>.
	for i := uint64(0); i < n; i++ {
		if i&bit == 0 {
			sv.amplitudes[i] = sv.amplitudes[i|bit]
			sv.amplitudes[i|bit] = 0
		}
	}
}

func (sv *StateVector) BasisProbability(index uint64) float64 {
	if index >= uint64(len(sv.amplitudes)) {
		return 0
	}
	a := sv.amplitudes[index]
	return real(a)*real(a) + imag(a)*imag(a)
}

// Approximate drops the smallest-probability amplitudes while the kept
// fidelity stays at or above the target, then renormalizes. Mirrors the
// fidelity-bounded truncation the diagram engine performs at checkpoints.
func (sv *StateVector) Approximate(fidelity float64) bool {
	if fidelity >= 1 {
		return false
	}
	budget := 1 - fidelity

	type weighted struct {
		index uint64
		prob  float64
	}
	candidates := make([]weighted, 0, len(sv.amplitudes))
	for i, a := range sv.amplitudes {
		if a != 0 {
			candidates = append(candidates, weighted{uint64(i), real(a)*real(a) + imag(a)*imag(a)})
		}
	}
	if len(candidates) <= 1 {
		return false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].prob < candidates[j].prob })

	dropped := 0.0
	fired := false
	for _, c := range candidates[:len(candidates)-1] { // never drop the last amplitude
		if dropped+c.prob > budget {
			break
		}
		dropped += c.prob
		sv.amplitudes[c.index] = 0
		fired = true
	}
	if fired {
		if err := sv.renormalize(); err != nil {
			// Unreachable: at least one amplitude survives.
			panic(err)
		}
	}
	return fired
}

func (sv *StateVector) Measure(rng *RNG) string {
	draw := rng.Float64()
	cumulative := 0.0
	outcome := uint64(len(sv.amplitudes) - 1)
	for i, a := range sv.amplitudes {
		cumulative += real(a)*real(a) + imag(a)*imag(a)
		if draw < cumulative {
			outcome = uint64(i)
			break
		}
	}

	// Collapse onto the measured basis state.
	for i := range sv.amplitudes {
		sv.amplitudes[i] = 0
	}
	sv.amplitudes[outcome] = 1

	return formatBitstring(outcome, sv.qubits)
}

func (sv *StateVector) Dispose() {
	sv.amplitudes = nil
}

func (sv *StateVector) renormalize() error {
	probs := make([]float64, len(sv.amplitudes))
	for i, a := range sv.amplitudes {
		probs[i] = real(a)*real(a) + imag(a)*imag(a)
	}
	norm := floats.Sum(probs)
	if norm <= 0 {
		return ErrNullState
	}
	if math.Abs(norm-1) < 1e-12 {
		return nil
	}
	scale := complex(1/math.Sqrt(norm), 0)
	for i := range sv.amplitudes {
		sv.amplitudes[i] *= scale
	}
	return nil
}

// formatBitstring renders a basis index with the highest qubit leftmost,
// zero-padded to the register width.
func formatBitstring(index uint64, qubits int) string {
	s := strconv.FormatUint(index, 2)
	for len(s) < qubits {
		s = "0" + s
	}
	return s
}
