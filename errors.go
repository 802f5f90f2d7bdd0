package household

import (
	"errors"
	"fmt"
)

// ConfigError reports an invalid configuration value. It is returned before
// any computation starts: a bad threshold cannot be safely defaulted.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InvariantError reports a violated internal invariant (negative confidence
// band, unconserved allocation flow). It is a defect in the engine, not a
// data-quality issue, and is reported distinctly so a test suite can assert
// it never fires on valid input.
type InvariantError struct {
	Check  string
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant %q violated: %s", e.Check, e.Detail)
}

func invariantf(check, format string, args ...any) *InvariantError {
	return &InvariantError{Check: check, Detail: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether any error in err's chain is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// IsInvariantError reports whether any error in err's chain is an InvariantError.
func IsInvariantError(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
