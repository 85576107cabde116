package qsim

import (
	"strconv"
	"strings"
)

/*
Property is one recorded scalar functional of the final state: the
probability of a single computational-basis state. The ordinal/label pairing
is assigned once at configuration time and is identical across every
trajectory; a mismatch at merge time is a programming error, not a runtime
condition.
*/
type Property struct {
	Ordinal int
	Index   uint64
	Label   string
}

// ParseRecordedProperties expands a spec string into stable ordinal/label
// pairs. The spec is a comma list of basis indices and inclusive lo-hi
// ranges, e.g. "0,2,4-7". Labels are the basis bitstrings over the circuit
// width.
func ParseRecordedProperties(spec string, qubits int) ([]Property, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}

	limit := uint64(1) << qubits
	var properties []Property

	appendIndex := func(index uint64) error {
		if index >= limit {
			return configErrorf("recordedProperties",
				"basis index %d out of range for %d qubits", index, qubits)
		}
		properties = append(properties, Property{
			Ordinal: len(properties),
			Index:   index,
			Label:   formatBitstring(index, qubits),
		})
		return nil
	}

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if lo, hi, ok := strings.Cut(token, "-"); ok {
			start, err := strconv.ParseUint(strings.TrimSpace(lo), 10, 64)
			if err != nil {
				return nil, configErrorf("recordedProperties", "bad range start %q", lo)
			}
			end, err := strconv.ParseUint(strings.TrimSpace(hi), 10, 64)
			if err != nil {
				return nil, configErrorf("recordedProperties", "bad range end %q", hi)
			}
			if end < start {
				return nil, configErrorf("recordedProperties", "range %q is inverted", token)
			}
			for index := start; index <= end; index++ {
				if err := appendIndex(index); err != nil {
					return nil, err
				}
			}
			continue
		}
		index, err := strconv.ParseUint(token, 10, 64)
		if err != nil {
			return nil, configErrorf("recordedProperties", "bad basis index %q", token)
		}
		if err := appendIndex(index); err != nil {
			return nil, err
		}
	}
	return properties, nil
}

/*
TrajectoryRecord is the complete outcome of one stochastic run: the property
samples in ordinal order, the measured bitstring and the number of
approximation checkpoints that fired. A record is owned exclusively by the
executing worker until the join point and is never touched by another
goroutine before then.
*/
type TrajectoryRecord struct {
	RunID          uint64
	Properties     []float64
	Outcome        string
	Approximations int
}
