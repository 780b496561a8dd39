package reliability

import "errors"

type ErrorCode string

const (
	ErrorInputShape          ErrorCode = "input_shape"
	ErrorInsufficientData    ErrorCode = "insufficient_data"
	ErrorExpectedZero        ErrorCode = "expected_disagreement_zero"
	ErrorUnsupportedLevel    ErrorCode = "unsupported_level"
	ErrorBootstrapDegenerate ErrorCode = "bootstrap_degenerate"
	ErrorInvalidOption       ErrorCode = "invalid_option"
)

// Error is a coded computation failure. No partial alpha accompanies one.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

func NewInputShapeError(msg string) error { return &Error{Code: ErrorInputShape, Message: msg} }
func NewInsufficientDataError(msg string) error {
	return &Error{Code: ErrorInsufficientData, Message: msg}
}
func NewExpectedZeroError(msg string) error { return &Error{Code: ErrorExpectedZero, Message: msg} }
func NewUnsupportedLevelError(msg string) error {
	return &Error{Code: ErrorUnsupportedLevel, Message: msg}
}
func NewBootstrapDegenerateError(msg string) error {
	return &Error{Code: ErrorBootstrapDegenerate, Message: msg}
}
func NewInvalidOptionError(msg string) error { return &Error{Code: ErrorInvalidOption, Message: msg} }

func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// HasCode reports whether err carries the given engine error code.
func HasCode(err error, code ErrorCode) bool {
	ce, ok := AsError(err)
	return ok && ce.Code == code
}
