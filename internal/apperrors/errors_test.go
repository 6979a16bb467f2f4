package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name      string
		err       *Error
		wantParts []string
	}{
		{
			name:      "with cause",
			err:       Wrap(TransportFailure, "detail fetch failed", errors.New("connection refused")),
			wantParts: []string{"TRANSPORT_FAILURE", "detail fetch failed", "connection refused"},
		},
		{
			name:      "with source",
			err:       New(PersistenceFailure, "insert rejected").WithSource("sqlite"),
			wantParts: []string{"PERSISTENCE_FAILURE", "insert rejected", "sqlite"},
		},
		{
			name:      "plain",
			err:       New(NotFound, "no candidate for query"),
			wantParts: []string{"NOT_FOUND", "no candidate for query"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want it to contain %q", got, part)
				}
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(PersistenceFailure, "commit failed", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is failed to find wrapped cause")
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("sync: %w", New(ConflictOnCreate, "slug already exists"))

	if !HasCode(err, ConflictOnCreate) {
		t.Error("HasCode failed to find code through wrapping")
	}
	if HasCode(err, NotFound) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(errors.New("plain"), NotFound) {
		t.Error("HasCode matched a plain error")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(New(NotFound, "exhausted")) {
		t.Error("IsNotFound = false for NOT_FOUND error")
	}
	if IsNotFound(New(RateLimited, "throttled")) {
		t.Error("IsNotFound = true for RATE_LIMITED error")
	}
}
