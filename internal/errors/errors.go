package errors

import (
	"errors"
	"fmt"
)

const (
	ErrInternalError   = "internal error"
	ErrNotFound        = "not found"
	ErrAlreadyExists   = "already exists"
	ErrInvalidArgument = "invalid argument"
	ErrFailedPrecond   = "failed precondition"
	ErrUnavailable     = "unavailable"
)

// DomainError is the base error type used across diffpack, it collects the
// entity which raised the error along with the error category.
type DomainError struct {
	ErrorType  string
	Entity     string
	Message    string
	WrappedErr error
}

func NewError(errType, entity, msg string) *DomainError {
	return &DomainError{
		ErrorType: errType,
		Entity:    entity,
		Message:   msg,
	}
}

// InvalidArgument returns a new invalid argument error for the entity
func InvalidArgument(entity, msg string) error {
	return NewError(ErrInvalidArgument, entity, msg)
}

// NotFound returns a new not found error for the entity
func NotFound(entity, msg string) error {
	return NewError(ErrNotFound, entity, msg)
}

// Unavailable returns an error for a collaborator which cannot be reached
func Unavailable(entity, msg string) error {
	return NewError(ErrUnavailable, entity, msg)
}

// InternalError returns a new internal error for the entity, wraps the
// underlying cause when provided
func InternalError(entity, msg string, err error) error {
	return &DomainError{
		ErrorType:  ErrInternalError,
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
}

// Wrap keeps the cause while recording where the error surfaced
func Wrap(entity, msg string, err error) error {
	if err == nil {
		return nil
	}
	de := &DomainError{
		Entity:     entity,
		Message:    msg,
		WrappedErr: err,
	}
	var wrapped *DomainError
	if errors.As(err, &wrapped) {
		de.ErrorType = wrapped.ErrorType
	} else {
		de.ErrorType = ErrInternalError
	}
	return de
}

// AddErrContext prefixes the error with entity context without changing
// its error type
func AddErrContext(err error, entity, msg string) error {
	return Wrap(entity, msg, err)
}

func (e *DomainError) Error() string {
	if e.WrappedErr == nil {
		return fmt.Sprintf("%s for entity %s: %s", e.ErrorType, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s for entity %s: %s: %s", e.ErrorType, e.Entity, e.Message, e.WrappedErr)
}

func (e *DomainError) Unwrap() error {
	return e.WrappedErr
}

// IsErrorType reports whether err or any error it wraps carries the given
// error type
func IsErrorType(err error, errType string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.ErrorType == errType
	}
	return false
}
