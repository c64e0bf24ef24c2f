package domain

import "fmt"

// ValidationError reports rejected user input. It is client-fixable and is
// never logged at error level.
type ValidationError struct {
	msg string
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// PersistenceError reports a store failure: connectivity loss or a constraint
// violation. Op names the operation that failed.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// UnexpectedError wraps a downstream failure that occurred after the
// subscription state was already committed, such as a failed email dispatch.
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return e.Err.Error()
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}
