package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:     http.StatusNotFound,
		KindValidation:   http.StatusBadRequest,
		KindConflict:     http.StatusConflict,
		KindUnauthorized: http.StatusUnauthorized,
		KindInternal:     http.StatusInternalServerError,
		KindUnavailable:  http.StatusServiceUnavailable,
		KindUnknown:      http.StatusBadRequest,
	}

	for kind, want := range cases {
		if got := New(kind, "x").HTTPStatus(); got != want {
			t.Fatalf("kind %d: expected %d, got %d", kind, want, got)
		}
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	base := Unavailable("stakeholder store unavailable", errors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("list: %w", base)

	if !Is(wrapped, KindUnavailable) {
		t.Fatalf("expected KindUnavailable through wrapping, got %d", GetKind(wrapped))
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Fatal("plain errors must report KindUnknown")
	}
}

func TestErrorIncludesOp(t *testing.T) {
	err := Validation("name is required").WithOp("stakeholders.create")
	if err.Error() != "stakeholders.create: name is required" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
