package store_test

import (
	"errors"
	"testing"

	"github.com/jetsetilly/tracepointd/store"
	"github.com/jetsetilly/tracepointd/terrs"
)

type fakeHook struct {
	created []*store.Tracepoint
	deleted []*store.Tracepoint
}

func (h *fakeHook) TracepointCreated(tp *store.Tracepoint) { h.created = append(h.created, tp) }
func (h *fakeHook) TracepointDeleted(tp *store.Tracepoint) { h.deleted = append(h.deleted, tp) }

func TestCreateAssignsMonotonicNumbers(t *testing.T) {
	s := store.New(nil)
	a := s.Create(0x1000, "", 0, "", "c", 10)
	b := s.Create(0x2000, "", 0, "", "c", 10)
	if a.Number != 1 || b.Number != 2 {
		t.Fatalf("expected numbers 1,2, got %d,%d", a.Number, b.Number)
	}
}

func TestCreateInvokesHook(t *testing.T) {
	h := &fakeHook{}
	s := store.New(h)
	tp := s.Create(0x1000, "", 0, "", "c", 10)
	if len(h.created) != 1 || h.created[0] != tp {
		t.Fatalf("expected hook to be invoked with the created tracepoint")
	}
}

func TestNumbersSurviveDeleteOfOthers(t *testing.T) {
	s := store.New(nil)
	a := s.Create(0x1000, "", 0, "", "c", 10)
	b := s.Create(0x2000, "", 0, "", "c", 10)
	c := s.Create(0x3000, "", 0, "", "c", 10)

	if err := s.Delete(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Number != 1 || c.Number != 3 {
		t.Fatalf("surviving tracepoints must keep their numbers, got %d,%d", a.Number, c.Number)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 remaining, got %d", s.Len())
	}
}

func TestDeleteInvokesHookAndClearsFields(t *testing.T) {
	h := &fakeHook{}
	s := store.New(h)
	tp := s.Create(0x1000, "", 0, "", "c", 10)
	tp.Condition = "x == 1"
	if err := s.Delete(tp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(h.deleted) != 1 || h.deleted[0] != tp {
		t.Fatalf("expected delete hook invocation")
	}
	if tp.Condition != "" || tp.Actions != nil {
		t.Fatalf("expected condition and actions cleared on delete")
	}
}

func TestDeleteUnknownTracepointFails(t *testing.T) {
	s := store.New(nil)
	tp := &store.Tracepoint{Number: 99}
	err := s.Delete(tp)
	if !terrs.Is(err, terrs.UnknownTracepoint) {
		t.Fatalf("expected UnknownTracepoint, got %v", err)
	}
}

func TestLookupByNumberEmptyMeansLastCreated(t *testing.T) {
	s := store.New(nil)
	s.Create(0x1000, "", 0, "", "c", 10)
	b := s.Create(0x2000, "", 0, "", "c", 10)

	got, err := s.LookupByNumber("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != b {
		t.Fatalf("expected last-created tracepoint")
	}
}

func TestLookupByNumberDecimal(t *testing.T) {
	s := store.New(nil)
	a := s.Create(0x1000, "", 0, "", "c", 10)
	s.Create(0x2000, "", 0, "", "c", 10)

	got, err := s.LookupByNumber("1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != a {
		t.Fatalf("expected tracepoint #1")
	}
}

func TestLookupByNumberUnknown(t *testing.T) {
	s := store.New(nil)
	s.Create(0x1000, "", 0, "", "c", 10)

	_, err := s.LookupByNumber("42", nil)
	if !terrs.Is(err, terrs.UnknownTracepoint) {
		t.Fatalf("expected UnknownTracepoint, got %v", err)
	}
}

type fakeEvaluator struct {
	value int64
	err   error
}

func (f fakeEvaluator) EvalInt(expr string) (int64, error) { return f.value, f.err }

func TestLookupByNumberConvenienceVariable(t *testing.T) {
	s := store.New(nil)
	a := s.Create(0x1000, "", 0, "", "c", 10)

	got, err := s.LookupByNumber("$tpnum", fakeEvaluator{value: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != a {
		t.Fatalf("expected tracepoint #1 via convenience variable")
	}
}

func TestLookupByNumberConvenienceVariableFailure(t *testing.T) {
	s := store.New(nil)
	_, err := s.LookupByNumber("$bogus", fakeEvaluator{err: errors.New("undefined")})
	if !terrs.Is(err, terrs.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestLookupByNumberNonNumericWithoutEvaluator(t *testing.T) {
	s := store.New(nil)
	_, err := s.LookupByNumber("abc", nil)
	if !terrs.Is(err, terrs.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestIterFilteredEmptyMeansAll(t *testing.T) {
	s := store.New(nil)
	s.Create(0x1000, "", 0, "", "c", 10)
	s.Create(0x2000, "", 0, "", "c", 10)
	got := s.IterFiltered(nil)
	if len(got) != 2 {
		t.Fatalf("expected all tracepoints, got %d", len(got))
	}
}

func TestIterFilteredSubset(t *testing.T) {
	s := store.New(nil)
	s.Create(0x1000, "", 0, "", "c", 10)
	b := s.Create(0x2000, "", 0, "", "c", 10)
	s.Create(0x3000, "", 0, "", "c", 10)

	got := s.IterFiltered([]int{2})
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected only tracepoint #2")
	}
}

func TestSetPassCountAll(t *testing.T) {
	s := store.New(nil)
	a := s.Create(0x1000, "", 0, "", "c", 10)
	b := s.Create(0x2000, "", 0, "", "c", 10)
	s.SetPassCount(nil, 5)
	if a.PassCount != 5 || b.PassCount != 5 {
		t.Fatalf("expected all pass counts set to 5")
	}
}

func TestEnableDisableIdempotent(t *testing.T) {
	s := store.New(nil)
	tp := s.Create(0x1000, "", 0, "", "c", 10)
	s.Disable(tp)
	s.Disable(tp)
	if tp.Enabled {
		t.Fatal("expected tracepoint disabled")
	}
	s.Enable(tp)
	s.Enable(tp)
	if !tp.Enabled {
		t.Fatal("expected tracepoint enabled")
	}
}
