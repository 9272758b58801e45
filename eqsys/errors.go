package eqsys

import "errors"

var (
	// ErrMalformedEquation is returned when equation text is not of the form
	// "output = expression" with a single identifier on the left side.
	ErrMalformedEquation = errors.New("equation is not of the form \"output = expression\"")

	// ErrDuplicateOutput is returned when two equations define the same output.
	ErrDuplicateOutput = errors.New("variable is defined by more than one equation")

	// ErrUnknownVariable is returned when a referenced variable was never declared.
	ErrUnknownVariable = errors.New("variable is not declared")

	// ErrMissingValue is returned when a declared variable has neither a value
	// nor a defining equation to compute one from.
	ErrMissingValue = errors.New("variable has no value and no defining equation")

	// ErrRedeclared is returned when a variable is declared twice.
	ErrRedeclared = errors.New("variable is already declared")

	// ErrRestrictedName is returned when a variable name collides with a
	// named constant such as pi.
	ErrRestrictedName = errors.New("name is reserved for a constant")
)
