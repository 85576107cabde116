package qsim

import (
	"math"
)

// Effect identifies a noise channel family applied after gate operations.
type Effect byte

const (
	AmplitudeDamping Effect = 'A'
	PhaseFlip        Effect = 'P'
	Depolarizing     Effect = 'D'
)

// Channel identifies a concrete error operator selected inside the error
// branch of an effect.
type Channel int

const (
	ChannelNone Channel = iota
	ChannelAmplitudeDamping
	ChannelPauliX
	ChannelPauliY
	ChannelPauliZ
)

// GateMatrix is a single-qubit operator in the computational basis.
type GateMatrix [2][2]complex128

var (
	matrixPauliX = GateMatrix{{0, 1}, {1, 0}}
	matrixPauliY = GateMatrix{{0, -1i}, {1i, 0}}
	matrixPauliZ = GateMatrix{{1, 0}, {0, -1}}
)

/*
NoiseModel holds the validated noise probabilities and the error-operator
matrices derived from them. A model is immutable once constructed; changing
any parameter means building a new model, never mutating one in place.

The amplitude-damping channel keeps two operators per gate arity: the "error"
branch (the damping jump) and the "no-error" branch (the no-jump evolution),
both scaled by square roots of the damping probability. Phase flip and
depolarizing reuse the Pauli operators directly.
*/
type NoiseModel struct {
	prob      float64
	probMulti float64

	ampDampingProb      float64
	ampDampingProbMulti float64

	ampDampingTrue       GateMatrix
	ampDampingFalse      GateMatrix
	ampDampingTrueMulti  GateMatrix
	ampDampingFalseMulti GateMatrix

	effects []Effect
}

// NewNoiseModel derives the error probabilities and operator matrices from a
// base probability. A negative ampDampingProb selects the default, which is
// double the base probability. The effects string enables channel families
// in priority order.
func NewNoiseModel(baseProb, ampDampingProb, multiQubitFactor float64, effects string) (*NoiseModel, error) {
	if baseProb < 0 || baseProb > 1 {
		return nil, configErrorf("baseNoiseProbability", "must be in [0,1], got %v", baseProb)
	}
	if multiQubitFactor <= 0 {
		multiQubitFactor = 2
	}
	if ampDampingProb < 0 {
		// Amplitude damping (T1) is typically about twice as likely as a
		// phase flip for the same gate.
		ampDampingProb = baseProb * 2
	}
	if ampDampingProb*multiQubitFactor > 1 {
		return nil, configErrorf("amplitudeDampingProbability",
			"multi-qubit damping probability %v exceeds 1 (single %v, factor %v)",
			ampDampingProb*multiQubitFactor, ampDampingProb, multiQubitFactor)
	}

	nm := &NoiseModel{
		prob:                baseProb,
		probMulti:           baseProb * multiQubitFactor,
		ampDampingProb:      ampDampingProb,
		ampDampingProbMulti: ampDampingProb * multiQubitFactor,
	}
	nm.ampDampingTrue = dampingJump(nm.ampDampingProb)
	nm.ampDampingFalse = dampingNoJump(nm.ampDampingProb)
	nm.ampDampingTrueMulti = dampingJump(nm.ampDampingProbMulti)
	nm.ampDampingFalseMulti = dampingNoJump(nm.ampDampingProbMulti)

	if err := nm.setEnabledEffects(effects); err != nil {
		return nil, err
	}
	return nm, nil
}

func dampingJump(p float64) GateMatrix {
	return GateMatrix{{0, complex(math.Sqrt(p), 0)}, {0, 0}}
}

func dampingNoJump(p float64) GateMatrix {
	return GateMatrix{{1, 0}, {0, complex(math.Sqrt(1-p), 0)}}
}

func (nm *NoiseModel) setEnabledEffects(spec string) error {
	effects := make([]Effect, 0, len(spec))
	for _, c := range []byte(spec) {
		switch Effect(c) {
		case AmplitudeDamping, PhaseFlip, Depolarizing:
			effects = append(effects, Effect(c))
		default:
			return configErrorf("noiseEffects", "unknown noise effect %q", string(c))
		}
	}
	nm.effects = effects
	return nil
}

// Effects returns the enabled channel families in selection-priority order.
func (nm *NoiseModel) Effects() []Effect { return nm.effects }

// Enabled reports whether any noise is injected at all.
func (nm *NoiseModel) Enabled() bool {
	return len(nm.effects) > 0 && (nm.prob > 0 || nm.ampDampingProb > 0)
}

// EffectsString renders the enabled effects in priority order.
func (nm *NoiseModel) EffectsString() string {
	s := make([]byte, len(nm.effects))
	for i, e := range nm.effects {
		s[i] = byte(e)
	}
	return string(s)
}

// ErrorProbability returns the probability mass of the error branch for the
// given effect and gate arity. The no-error branch carries the remainder.
func (nm *NoiseModel) ErrorProbability(effect Effect, multiQubit bool) float64 {
	switch effect {
	case AmplitudeDamping:
		if multiQubit {
			return nm.ampDampingProbMulti
		}
		return nm.ampDampingProb
	default:
		if multiQubit {
			return nm.probMulti
		}
		return nm.prob
	}
}

// SelectErrorChannel maps a uniform draw, already known to lie inside the
// error branch, to the concrete channel it lands in. Depolarizing partitions
// its branch into three equal sub-intervals for the X, Y and Z operators.
func (nm *NoiseModel) SelectErrorChannel(effect Effect, draw float64, multiQubit bool) Channel {
	switch effect {
	case AmplitudeDamping:
		return ChannelAmplitudeDamping
	case PhaseFlip:
		return ChannelPauliZ
	case Depolarizing:
		p := nm.ErrorProbability(Depolarizing, multiQubit)
		switch {
		case draw < p/3:
			return ChannelPauliX
		case draw < 2*p/3:
			return ChannelPauliY
		default:
			return ChannelPauliZ
		}
	}
	return ChannelNone
}

// ChannelMatrix returns the operator applied for a selected channel.
func (nm *NoiseModel) ChannelMatrix(ch Channel, multiQubit bool) GateMatrix {
	switch ch {
	case ChannelAmplitudeDamping:
		if multiQubit {
			return nm.ampDampingTrueMulti
		}
		return nm.ampDampingTrue
	case ChannelPauliX:
		return matrixPauliX
	case ChannelPauliY:
		return matrixPauliY
	case ChannelPauliZ:
		return matrixPauliZ
	}
	return GateMatrix{{1, 0}, {0, 1}}
}

// NoJumpMatrix returns the amplitude-damping no-error operator. It is applied
// whenever the damping draw lands outside the error branch, since the no-jump
// evolution also deforms the state.
func (nm *NoiseModel) NoJumpMatrix(multiQubit bool) GateMatrix {
	if multiQubit {
		return nm.ampDampingFalseMulti
	}
	return nm.ampDampingFalse
}
