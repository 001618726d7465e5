package cserr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	e := New(PathNotFound, "no such root")
	want := "[PATH_NOT_FOUND] no such root"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}

	wrapped := Wrap(ManifestInvalid, "bad manifest", errors.New("unexpected token"))
	if wrapped.Error() != "[MANIFEST_INVALID] bad manifest: unexpected token" {
		t.Errorf("unexpected wrapped message: %q", wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	e := Wrap(Internal, "boom", cause)
	if !errors.Is(e, cause) {
		t.Error("errors.Is should reach the cause through Unwrap")
	}
}

func TestIsMatchesByCode(t *testing.T) {
	err := fmt.Errorf("scan: %w", Wrap(PathNotFound, "missing", nil))
	if !errors.Is(err, ErrPathNotFound) {
		t.Error("errors with the same code should match the sentinel")
	}

	other := New(ManifestInvalid, "nope")
	if errors.Is(other, ErrPathNotFound) {
		t.Error("different codes must not match")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(StoreFailure, "x")); got != StoreFailure {
		t.Errorf("CodeOf = %s, want %s", got, StoreFailure)
	}
	if got := CodeOf(errors.New("plain")); got != Internal {
		t.Errorf("CodeOf(plain) = %s, want %s", got, Internal)
	}
}
