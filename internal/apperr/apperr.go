// Package apperr classifies command failures so the HTTP layer can turn
// them into a status code and a message the member can read.
package apperr

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindConflict         Kind = "conflict"
	KindInvalidOperation Kind = "invalid_operation"
	KindForbidden        Kind = "forbidden"
	KindStorageFailure   Kind = "storage_failure"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, code string, err error) *Error {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Error{Kind: kind, Code: code, Message: msg, Err: err}
}

func NotFound(code string, err error) *Error { return New(KindNotFound, code, err) }

func Conflict(code string, err error) *Error { return New(KindConflict, code, err) }

func Invalid(code string, err error) *Error { return New(KindInvalidOperation, code, err) }

func Forbidden(code string, err error) *Error { return New(KindForbidden, code, err) }

// Storage hides the lower-layer message; the cause stays reachable via errors.Unwrap.
func Storage(err error) *Error {
	return &Error{Kind: KindStorageFailure, Code: "storage_failure", Message: "storage failure", Err: err}
}

// KindOf reports the kind of err. Unclassified errors are storage failures.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindStorageFailure
}

func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return "storage_failure"
}

// HTTPStatus maps a kind onto a response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindInvalidOperation:
		return http.StatusUnprocessableEntity
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Message is the text shown to the caller.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Error()
	}
	return "storage failure"
}
