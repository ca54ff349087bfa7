package clierr

import "errors"

// ExitError carries an explicit process exit code alongside its cause.
// It supports wrapping via Unwrap so errors.Is/As work as expected.
type ExitError struct {
	code  int
	cause error
}

func (e *ExitError) Error() string { return e.cause.Error() }

func (e *ExitError) ExitCode() int { return e.code }

func (e *ExitError) Unwrap() error { return e.cause }

// Code attaches an exit code to err. A nil err stays nil.
func Code(code int, err error) error {
	if err == nil {
		return nil
	}
	if code <= 0 {
		code = 1
	}
	return &ExitError{code: code, cause: err}
}

// ExitCodeOf extracts the exit code from an error chain, defaulting to 1
// for plain errors and 0 for nil.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}
