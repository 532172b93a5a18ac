package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusByKind(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{NotFound("quote not found"), http.StatusNotFound},
		{Validation("bad input"), http.StatusBadRequest},
		{Precondition("quote must be approved"), http.StatusBadRequest},
		{Conflict("duplicate"), http.StatusConflict},
		{Unauthorized("no token"), http.StatusUnauthorized},
		{Internal("db down", errors.New("boom")), http.StatusInternalServerError},
		{New(KindUnknown, "?"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Fatalf("kind %s: expected %d, got %d", tc.err.Kind, tc.want, got)
		}
	}
}

func TestGetKindFollowsWrapChain(t *testing.T) {
	base := Precondition("quote must be approved")
	wrapped := fmt.Errorf("convert: %w", base)

	if GetKind(wrapped) != KindPrecondition {
		t.Fatalf("expected precondition kind, got %s", GetKind(wrapped))
	}
	if !Is(wrapped, KindPrecondition) {
		t.Fatal("expected Is to match wrapped kind")
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("expected untyped error to report unknown kind")
	}
}

func TestInternalUnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("insert order", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected internal error to unwrap to its cause")
	}
	if err.Error() != "insert order: connection reset" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
