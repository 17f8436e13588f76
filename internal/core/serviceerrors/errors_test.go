package serviceerrors

import (
	"fmt"
	"testing"
)

func TestIsOfKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
		want bool
	}{
		{"not found", NewNotFoundError("x"), KindNotFound, true},
		{"wrapped forbidden", fmt.Errorf("edit: %w", NewForbiddenError("x")), KindForbidden, true},
		{"unauthenticated is not forbidden", NewUnauthenticatedError("x"), KindForbidden, false},
		{"plain error", fmt.Errorf("boom"), KindNotFound, false},
		{"nil", nil, KindNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOfKind(tt.err, tt.kind); got != tt.want {
				t.Errorf("IsOfKind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithCode(t *testing.T) {
	err := NewConflictError("email already exists").WithCode("EMAIL_ALREADY_EXISTS")

	if err.Code != "EMAIL_ALREADY_EXISTS" || err.Kind != KindConflict {
		t.Fatalf("unexpected error %+v", err)
	}
	if err.Error() != "email already exists" {
		t.Fatalf("code must not change the message, got %q", err.Error())
	}
	if NewConflictError("x").Code != "" {
		t.Fatal("expected constructors to leave code empty")
	}
}
