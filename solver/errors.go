package solver

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnresolved is matched (with errors.Is) by the
	// UnresolvedVariablesError returned when the fixed point leaves
	// variables without a tolerance.
	ErrUnresolved = errors.New("cannot resolve all tolerances")

	// ErrValueCheck is returned when value checking is enabled and a
	// caller-supplied value disagrees with its forward evaluation.
	ErrValueCheck = errors.New("value does not satisfy its defining equation")
)

// UnresolvedVariablesError reports the variables still lacking a tolerance
// when no pass can make progress: the boundary tolerances do not reach them,
// or their equations form a cycle.
type UnresolvedVariablesError struct {
	// Variables lists the stuck variable names in declaration order.
	Variables []string
}

func (e *UnresolvedVariablesError) Error() string {
	return fmt.Sprintf("%v: stuck on %s", ErrUnresolved, strings.Join(e.Variables, ", "))
}

func (e *UnresolvedVariablesError) Is(target error) bool { return target == ErrUnresolved }
