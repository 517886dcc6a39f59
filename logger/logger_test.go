package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jetsetilly/tracepointd/logger"
)

func TestBasicLogAndWrite(t *testing.T) {
	log := logger.New(100)
	w := &strings.Builder{}

	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected empty, got %q", w.String())
	}

	log.Log(logger.Allow, "store", "created tracepoint #1")
	log.Write(w)
	if w.String() != "store: created tracepoint #1\n" {
		t.Fatalf("got %q", w.String())
	}
}

func TestTail(t *testing.T) {
	log := logger.New(100)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")

	log.Tail(w, 2)
	if w.String() != "b: 2\nc: 3\n" {
		t.Fatalf("got %q", w.String())
	}

	w.Reset()
	log.Tail(w, 100)
	if w.String() != "a: 1\nb: 2\nc: 3\n" {
		t.Fatalf("got %q", w.String())
	}

	w.Reset()
	log.Tail(w, 0)
	if w.String() != "" {
		t.Fatalf("got %q", w.String())
	}
}

func TestRingOverflow(t *testing.T) {
	log := logger.New(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	log.Log(logger.Allow, "c", "3")

	log.Write(w)
	if w.String() != "b: 2\nc: 3\n" {
		t.Fatalf("got %q", w.String())
	}
}

type denyPermission struct{}

func (denyPermission) AllowLogging() bool { return false }

func TestPermission(t *testing.T) {
	log := logger.New(10)
	w := &strings.Builder{}

	log.Log(denyPermission{}, "tag", "detail")
	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected nothing logged, got %q", w.String())
	}
}

func TestErrorAndStringerDetail(t *testing.T) {
	log := logger.New(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "tag", errors.New("boom"))
	log.Logf(logger.Allow, "tag", "wrapped: %v", errors.New("boom"))
	log.Write(w)
	if w.String() != "tag: boom\ntag: wrapped: boom\n" {
		t.Fatalf("got %q", w.String())
	}
}

func TestClear(t *testing.T) {
	log := logger.New(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", "1")
	log.Clear()
	log.Write(w)
	if w.String() != "" {
		t.Fatalf("expected empty after Clear, got %q", w.String())
	}
}
