package safemath

import "github.com/pkg/errors"

// arithmetic errors
var (
	ErrOverflow       = errors.New("Math: OVERFLOW")
	ErrUnderflow      = errors.New("Math: UNDERFLOW")
	ErrDivisionByZero = errors.New("Math: DIVISION_BY_ZERO")
	ErrNotBalance     = errors.New("Math: NOT_A_BALANCE")
)
