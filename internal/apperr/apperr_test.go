package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSomething = errors.New("class is full")

func TestKindAndStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		kind   Kind
		status int
	}{
		{"not found", NotFound("class_not_found", errSomething), KindNotFound, http.StatusNotFound},
		{"conflict", Conflict("already_frozen", errSomething), KindConflict, http.StatusConflict},
		{"invalid", Invalid("not_available", errSomething), KindInvalidOperation, http.StatusUnprocessableEntity},
		{"forbidden", Forbidden("forbidden", errSomething), KindForbidden, http.StatusForbidden},
		{"storage", Storage(errSomething), KindStorageFailure, http.StatusInternalServerError},
		{"plain error", errSomething, KindStorageFailure, http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("book: %w", Conflict("x", errSomething)), KindConflict, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestUnwrapKeepsSentinel(t *testing.T) {
	err := Invalid("not_available", errSomething)
	assert.ErrorIs(t, err, errSomething)
	assert.Equal(t, "class is full", Message(err))
	assert.Equal(t, "not_available", CodeOf(err))
}

func TestStorageHidesCause(t *testing.T) {
	err := Storage(errors.New("pq: connection refused"))
	assert.Equal(t, "storage failure", Message(err))
	assert.Equal(t, "storage failure", Message(errors.New("raw")))
}
