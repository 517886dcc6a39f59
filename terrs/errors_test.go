package terrs_test

import (
	"fmt"
	"testing"

	"github.com/jetsetilly/tracepointd/terrs"
)

func TestDuplicateErrors(t *testing.T) {
	e := terrs.New(terrs.InvalidArgument, "bad locinput: %s", "foo")
	if e.Error() != "bad locinput: foo" {
		t.Fatalf("got %q", e.Error())
	}

	f := terrs.New(terrs.InvalidArgument, "bad locinput: %s", e)
	if f.Error() != "bad locinput: foo" {
		t.Fatalf("got %q", f.Error())
	}
}

func TestIsAndHas(t *testing.T) {
	e := terrs.New(terrs.UnknownTracepoint, "tracepoint %d is not defined", 3)
	if !terrs.Is(e, terrs.UnknownTracepoint) {
		t.Fatal("expected Is(UnknownTracepoint)")
	}
	if terrs.Is(e, terrs.NotFound) {
		t.Fatal("did not expect Is(NotFound)")
	}

	f := terrs.New(terrs.ProtocolError, "tstart: %v", e)
	if terrs.Is(f, terrs.UnknownTracepoint) {
		t.Fatal("Is should not see through wrapping")
	}
	if !terrs.Has(f, "tracepoint %d is not defined") {
		t.Fatal("Has should see through wrapping")
	}

	if !terrs.IsAny(e) || !terrs.IsAny(f) {
		t.Fatal("expected IsAny for both")
	}
}

func TestPlainErrors(t *testing.T) {
	e := fmt.Errorf("plain test error")
	if terrs.IsAny(e) {
		t.Fatal("plain error should not be IsAny")
	}
	if terrs.Has(e, "plain test error") {
		t.Fatal("Has should fail for a plain error")
	}
}

func TestRemoteSubcategory(t *testing.T) {
	e := terrs.NewRemote(terrs.RemoteTraceAPI, 0x7, "target trace API error %#x", 7)
	if !terrs.Is(e, terrs.RemoteError) {
		t.Fatal("expected RemoteError kind")
	}
	sub, code, ok := terrs.RemoteInfo(e)
	if !ok || sub != terrs.RemoteTraceAPI || code != 7 {
		t.Fatalf("unexpected remote info: %v %v %v", sub, code, ok)
	}
}
