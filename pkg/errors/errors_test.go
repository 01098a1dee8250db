package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cause := errors.New("connection refused")
	tests := []struct {
		name    string
		err     *Error
		code    Code
		message string
		text    string
	}{
		{
			name:    "new",
			err:     New(ErrCodeInvalidInput, "limit must be positive, got %d", -1),
			code:    ErrCodeInvalidInput,
			message: "limit must be positive, got -1",
			text:    "INVALID_INPUT: limit must be positive, got -1",
		},
		{
			name:    "wrap",
			err:     Wrap(ErrCodeCache, cause, "read %s", "ordering"),
			code:    ErrCodeCache,
			message: "read ordering",
			text:    "CACHE_ERROR: read ordering: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code || tt.err.Message != tt.message {
				t.Errorf("got %s %q, want %s %q", tt.err.Code, tt.err.Message, tt.code, tt.message)
			}
			if tt.err.Error() != tt.text {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.text)
			}
		})
	}

	w := Wrap(ErrCodeCache, cause, "read")
	if errors.Unwrap(w) != cause || !errors.Is(w, cause) {
		t.Error("Wrap should keep the cause reachable")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeTimeout, "search")
	outer := Wrap(ErrCodeInternal, inner, "order graph")
	foreign := fmt.Errorf("cli: %w", outer)

	tests := []struct {
		name    string
		err     error
		is      []Code
		isNot   []Code
		code    Code
		message string
	}{
		{"plain", errors.New("boom"), nil, []Code{ErrCodeInternal}, "", "boom"},
		{"single", inner, []Code{ErrCodeTimeout}, []Code{ErrCodeInternal}, ErrCodeTimeout, "search"},
		{"nested", outer, []Code{ErrCodeInternal, ErrCodeTimeout}, []Code{ErrCodeCanceled}, ErrCodeInternal, "order graph"},
		{"behind fmt wrap", foreign, []Code{ErrCodeInternal, ErrCodeTimeout}, nil, ErrCodeInternal, "order graph"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, c := range tt.is {
				if !Is(tt.err, c) {
					t.Errorf("Is(%s) = false", c)
				}
			}
			for _, c := range tt.isNot {
				if Is(tt.err, c) {
					t.Errorf("Is(%s) = true", c)
				}
			}
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}

	if Is(nil, ErrCodeInternal) || GetCode(nil) != "" {
		t.Error("nil error should have no code")
	}
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeCanceled},
		{"wrapped deadline", fmt.Errorf("search: %w", context.DeadlineExceeded), ErrCodeTimeout},
		{"other", errors.New("boom"), ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromContext(tt.err, "ordering %s", "g")
			if got := GetCode(err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
			if !errors.Is(err, tt.err) {
				t.Error("cause should be preserved")
			}
		})
	}

	if FromContext(nil, "x") != nil {
		t.Error("FromContext(nil) should be nil")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{New(ErrCodeInvalidGraph, "x"), http.StatusBadRequest},
		{New(ErrCodeInvalidModel, "x"), http.StatusBadRequest},
		{New(ErrCodeNotFound, "x"), http.StatusNotFound},
		{New(ErrCodeTimeout, "x"), http.StatusGatewayTimeout},
		{New(ErrCodeUnsupported, "x"), http.StatusNotImplemented},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
