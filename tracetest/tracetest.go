// Package tracetest is a small assertion helper shared by this module's
// test files, reconstructed from the observed shape of the teacher's own
// test helper API (test.Equate, test.ExpectEquality) — the teacher's
// helper package itself was not retrievable, only its call sites were, so
// this is a from-scratch rebuild of the same narrow surface rather than an
// adopted dependency.
package tracetest

import (
	"testing"

	"github.com/jetsetilly/tracepointd/terrs"
)

// Equate fails t unless got == want.
func Equate[T comparable](t *testing.T, got, want T, msg string) {
	t.Helper()
	if got != want {
		t.Fatalf("%s: got %v, want %v", msg, got, want)
	}
}

// ExpectErrorIs fails t unless err is non-nil and of the given terrs.Kind.
func ExpectErrorIs(t *testing.T, err error, kind terrs.Kind, msg string) {
	t.Helper()
	if !terrs.Is(err, kind) {
		t.Fatalf("%s: expected %s, got %v", msg, kind, err)
	}
}

// ExpectNoError fails t if err is non-nil.
func ExpectNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}
