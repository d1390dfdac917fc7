package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies workflow rejections so callers can react to the class
// (and the UI can highlight the offending field) instead of parsing messages.
type ErrorKind string

const (
	KindForbidden      ErrorKind = "FORBIDDEN"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindInvalidState   ErrorKind = "INVALID_STATE"
	KindAlreadyDecided ErrorKind = "ALREADY_DECIDED"
	KindAlreadyChecked ErrorKind = "ALREADY_CHECKED"
	KindValidation     ErrorKind = "VALIDATION_ERROR"
	KindStore          ErrorKind = "STORE_ERROR"
)

// WorkflowError is the typed rejection every service operation returns.
// Field names the offending input for validation failures; it is empty for
// the other kinds.
type WorkflowError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	cause   error
}

func (e *WorkflowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field %s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *WorkflowError) Unwrap() error {
	return e.cause
}

// Is matches two workflow errors by kind, so errors.Is(err, ErrAlreadyDecided)
// works without comparing messages.
func (e *WorkflowError) Is(target error) bool {
	var w *WorkflowError
	if errors.As(target, &w) {
		return e.Kind == w.Kind
	}
	return false
}

// Kind sentinels for errors.Is checks.
var (
	ErrForbidden      = &WorkflowError{Kind: KindForbidden}
	ErrNotFound       = &WorkflowError{Kind: KindNotFound}
	ErrInvalidState   = &WorkflowError{Kind: KindInvalidState}
	ErrAlreadyDecided = &WorkflowError{Kind: KindAlreadyDecided}
	ErrAlreadyChecked = &WorkflowError{Kind: KindAlreadyChecked}
	ErrValidation     = &WorkflowError{Kind: KindValidation}
	ErrStore          = &WorkflowError{Kind: KindStore}
)

func forbidden(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func notFound(resource string) error {
	return &WorkflowError{Kind: KindNotFound, Message: resource + " not found"}
}

func invalidState(format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func alreadyDecided(message string) error {
	return &WorkflowError{Kind: KindAlreadyDecided, Message: message}
}

func alreadyChecked(message string) error {
	return &WorkflowError{Kind: KindAlreadyChecked, Message: message}
}

func validation(field, format string, args ...interface{}) error {
	return &WorkflowError{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

// storeErr wraps a repository failure, translating gorm's not-found into the
// NOT_FOUND kind and everything else into STORE_ERROR with the cause attached.
func storeErr(resource string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(resource)
	}
	return &WorkflowError{Kind: KindStore, Message: "store failure on " + resource, cause: err}
}

// KindOf extracts the error kind, or STORE_ERROR for untyped failures.
func KindOf(err error) ErrorKind {
	var w *WorkflowError
	if errors.As(err, &w) {
		return w.Kind
	}
	return KindStore
}
