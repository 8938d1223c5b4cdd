// Package apperr defines the error kinds shared by the travel services.
//
// Every error produced by the services unwraps to one of the sentinel kinds,
// so callers can branch with errors.Is:
//
//	if errors.Is(err, apperr.ErrNotFound) { ... }
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
)

// Domain error codes.
const (
	CodeEntityNotFound        = "DOM1001"
	CodeValidationFailed      = "DOM1002"
	CodeUnauthorizedOperation = "DOM1003"
	CodeConcurrencyConflict   = "DOM1004"
	CodeUserNotFound          = "DOM1100"
	CodeInvalidCredentials    = "DOM1101"
	CodeEmailAlreadyExists    = "DOM1102"
	CodeUsernameAlreadyExists = "DOM1103"
	CodeUserDeactivated       = "DOM1105"
	CodeDependencyUnavailable = "DOM1200"
)

type Error struct {
	Kind    error
	Code    string
	Op      string
	Entity  string
	ID      string
	Field   string
	Message string
}

func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.ID != "":
		return fmt.Sprintf("%s with ID '%s' was not found", e.Entity, e.ID)
	case e.Field != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error { return e.Kind }

func InvalidArgument(field, msg string) error {
	return &Error{Kind: ErrInvalidArgument, Code: CodeValidationFailed, Field: field, Message: msg}
}

func NotFound(entity, id string) error {
	code := CodeEntityNotFound
	if entity == "User" {
		code = CodeUserNotFound
	}
	return &Error{Kind: ErrNotFound, Code: code, Entity: entity, ID: id}
}

func Unauthorized(op, msg string) error {
	return &Error{Kind: ErrUnauthorized, Code: CodeUnauthorizedOperation, Op: op, Message: msg}
}

func Conflict(code, msg string) error {
	if code == "" {
		code = CodeConcurrencyConflict
	}
	return &Error{Kind: ErrConflict, Code: code, Message: msg}
}

// Unavailable reports that a collaborator the operation depends on cannot
// be reached.
func Unavailable(op, msg string) error {
	return &Error{Kind: ErrUnavailable, Code: CodeDependencyUnavailable, Op: op, Message: msg}
}

// As returns the *Error inside err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
