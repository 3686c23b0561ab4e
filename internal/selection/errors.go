package selection

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is returned for calls that are not allowed in the
	// model's current mode, such as range selection in single-select mode
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrInconsistentChange is returned when a source reports a change that
	// does not fit its current length
	ErrInconsistentChange = errors.New("inconsistent collection change")
)

func wrapInvalid(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidOperation)...)
}
