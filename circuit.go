package qsim

// OpKind classifies circuit operations.
type OpKind int

const (
	KindGate OpKind = iota
	KindMeasure
	KindReset
	KindBarrier
)

// Operation is one step of a circuit: a gate, a mid-circuit reset, a
// measurement marker or a barrier. Operations are immutable once appended.
type Operation struct {
	Kind    OpKind
	Gate    string // H, X, Y, Z, S, SDG, T, TDG, RX, RY, RZ, CX, CZ, SWAP
	Targets []int
	Control int // -1 when uncontrolled
	Param   float64
}

// Qubits returns every qubit the operation touches, control included.
// These are the qubits noise is injected on.
func (op Operation) Qubits() []int {
	if op.Control < 0 {
		return op.Targets
	}
	qubits := make([]int, 0, len(op.Targets)+1)
	qubits = append(qubits, op.Control)
	return append(qubits, op.Targets...)
}

// Arity is the number of qubits the operation acts on.
func (op Operation) Arity() int { return len(op.Qubits()) }

// MultiQubit reports whether the multi-qubit error probabilities apply.
func (op Operation) MultiQubit() bool { return op.Arity() > 1 }

// NoiseEligible reports whether noise is injected after the operation.
// Measurements, resets and barriers are exempt.
func (op Operation) NoiseEligible() bool { return op.Kind == KindGate }

/*
Circuit is an ordered, read-only operation list over a fixed qubit register.
It is built once, then iterated by every trajectory; it is never mutated
during simulation, so concurrent reads need no synchronization.
*/
type Circuit struct {
	Name   string
	Qubits int
	Ops    []Operation
}

func NewCircuit(name string, qubits int) *Circuit {
	return &Circuit{Name: name, Qubits: qubits}
}

// NumOps returns the number of operations in program order.
func (c *Circuit) NumOps() int { return len(c.Ops) }

func (c *Circuit) gate(name string, param float64, control int, targets ...int) *Circuit {
	c.Ops = append(c.Ops, Operation{
		Kind:    KindGate,
		Gate:    name,
		Targets: targets,
		Control: control,
		Param:   param,
	})
	return c
}

func (c *Circuit) H(q int) *Circuit   { return c.gate("H", 0, -1, q) }
func (c *Circuit) X(q int) *Circuit   { return c.gate("X", 0, -1, q) }
func (c *Circuit) Y(q int) *Circuit   { return c.gate("Y", 0, -1, q) }
func (c *Circuit) Z(q int) *Circuit   { return c.gate("Z", 0, -1, q) }
func (c *Circuit) S(q int) *Circuit   { return c.gate("S", 0, -1, q) }
func (c *Circuit) Sdg(q int) *Circuit { return c.gate("SDG", 0, -1, q) }
func (c *Circuit) T(q int) *Circuit   { return c.gate("T", 0, -1, q) }
func (c *Circuit) Tdg(q int) *Circuit { return c.gate("TDG", 0, -1, q) }

func (c *Circuit) RX(q int, theta float64) *Circuit { return c.gate("RX", theta, -1, q) }
func (c *Circuit) RY(q int, theta float64) *Circuit { return c.gate("RY", theta, -1, q) }
func (c *Circuit) RZ(q int, theta float64) *Circuit { return c.gate("RZ", theta, -1, q) }

func (c *Circuit) CX(control, target int) *Circuit { return c.gate("CX", 0, control, target) }
func (c *Circuit) CZ(control, target int) *Circuit { return c.gate("CZ", 0, control, target) }

func (c *Circuit) Swap(a, b int) *Circuit { return c.gate("SWAP", 0, -1, a, b) }

func (c *Circuit) Reset(q int) *Circuit {
	c.Ops = append(c.Ops, Operation{Kind: KindReset, Targets: []int{q}, Control: -1})
	return c
}

func (c *Circuit) Measure(q int) *Circuit {
	c.Ops = append(c.Ops, Operation{Kind: KindMeasure, Targets: []int{q}, Control: -1})
	return c
}

func (c *Circuit) Barrier() *Circuit {
	c.Ops = append(c.Ops, Operation{Kind: KindBarrier, Control: -1})
	return c
}
