package qsim

import (
	"errors"
	"fmt"
)

// ErrNullState is reported by a state engine when an error operator
// annihilates the state (zero norm). Callers fall back to the complementary
// branch operator.
var ErrNullState = errors.New("operator produced a null state")

// ConfigurationError reports an invalid simulation parameter. Configuration
// is validated eagerly at construction; values are never clamped or
// silently corrected.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
