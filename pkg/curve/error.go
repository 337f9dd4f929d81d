package curve

import "github.com/mahdiidarabi/ecdsa-weierstrass/pkg/field"

// ErrorKind identifies a kind of error. It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidParams is returned when a curve is constructed with a missing
	// or non-positive field prime, order or cofactor.
	ErrInvalidParams = ErrorKind("ErrInvalidParams")

	// ErrInvalidGenerator is returned when the base point of a curve does not
	// satisfy the curve equation.
	ErrInvalidGenerator = ErrorKind("ErrInvalidGenerator")

	// ErrSingularCurve is returned when 4a³ + 27b² ≡ 0 (mod p).
	ErrSingularCurve = ErrorKind("ErrSingularCurve")

	// ErrInvalidScalar is returned when a negative scalar is passed to scalar
	// multiplication.
	ErrInvalidScalar = ErrorKind("ErrInvalidScalar")

	// ErrInvalidEncoding is returned when a serialized point is malformed.
	ErrInvalidEncoding = ErrorKind("ErrInvalidEncoding")

	// ErrPointNotOnCurve is returned when coordinates do not satisfy the
	// curve equation.
	ErrPointNotOnCurve = ErrorKind("ErrPointNotOnCurve")

	// ErrCurveMismatch is returned when combining points of distinct curves.
	ErrCurveMismatch = ErrorKind("ErrCurveMismatch")
)

// ErrNotInvertible is re-exported so callers of this package need not import
// the field package to test for it.
var ErrNotInvertible = field.ErrNotInvertible

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to curve construction, point arithmetic
// or point encoding. It has full support for errors.Is and errors.As, so the
// caller can ascertain the specific reason for the error by checking the
// underlying error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
