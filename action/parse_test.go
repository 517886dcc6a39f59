package action_test

import (
	"testing"

	"github.com/jetsetilly/tracepointd/action"
)

func TestEmptyLineIsInvalid(t *testing.T) {
	l := action.Parse("   ")
	if l.Kind != action.Invalid {
		t.Fatalf("expected Invalid, got %v", l.Kind)
	}
}

func TestEnd(t *testing.T) {
	l := action.Parse("end")
	if l.Kind != action.End {
		t.Fatalf("expected End, got %v", l.Kind)
	}
	l = action.Parse("END")
	if l.Kind != action.End {
		t.Fatalf("expected case-insensitive End, got %v", l.Kind)
	}
}

func TestWhileSteppingUnbounded(t *testing.T) {
	l := action.Parse("while-stepping")
	if l.Kind != action.WhileStepping || l.StepCount != -1 {
		t.Fatalf("expected unbounded while-stepping, got %+v", l)
	}
}

func TestWhileSteppingWithCount(t *testing.T) {
	l := action.Parse("while-stepping 12")
	if l.Kind != action.WhileStepping || l.StepCount != 12 {
		t.Fatalf("expected while-stepping 12, got %+v", l)
	}
}

func TestWhileSteppingZeroRejected(t *testing.T) {
	l := action.Parse("while-stepping 0")
	if l.Kind != action.Invalid {
		t.Fatalf("expected Invalid for while-stepping 0, got %+v", l)
	}
}

// S4 — bad collect.
func TestBadCollectConstant(t *testing.T) {
	l := action.Parse("collect 42")
	if l.Kind != action.Invalid {
		t.Fatalf("expected Invalid, got %+v", l)
	}
	if l.Warning != "enter variable name or register" {
		t.Fatalf("unexpected warning: %q", l.Warning)
	}
}

func TestCollectSigils(t *testing.T) {
	l := action.Parse("collect $reg, $arg, $loc")
	if l.Kind != action.Collect {
		t.Fatalf("expected Collect, got %+v", l)
	}
	if len(l.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(l.Items))
	}
	if l.Items[0].Kind != action.AllRegisters || l.Items[1].Kind != action.AllArgs || l.Items[2].Kind != action.AllLocals {
		t.Fatalf("unexpected item kinds: %+v", l.Items)
	}
}

func TestCollectVariableAndRegister(t *testing.T) {
	l := action.Parse("collect counter, $pc")
	if l.Kind != action.Collect || len(l.Items) != 2 {
		t.Fatalf("unexpected parse: %+v", l)
	}
	if l.Items[0].Kind != action.Expression || l.Items[0].Expr != "counter" {
		t.Fatalf("unexpected item 0: %+v", l.Items[0])
	}
	if l.Items[1].Kind != action.Expression || l.Items[1].Expr != "$pc" {
		t.Fatalf("unexpected item 1: %+v", l.Items[1])
	}
}

func TestCollectLiteralMemrangeAbsolute(t *testing.T) {
	l := action.Parse("collect $(0x1000,4)")
	if l.Kind != action.Collect || len(l.Items) != 1 {
		t.Fatalf("unexpected parse: %+v", l)
	}
	item := l.Items[0]
	if item.Kind != action.LiteralMemrange || item.RegisterName != "" || item.Offset != 0x1000 || item.Length != 4 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestCollectLiteralMemrangeRegisterRelative(t *testing.T) {
	l := action.Parse("collect $($sp,-16,8)")
	if l.Kind != action.Collect || len(l.Items) != 1 {
		t.Fatalf("unexpected parse: %+v", l)
	}
	item := l.Items[0]
	if item.Kind != action.LiteralMemrange || item.RegisterName != "sp" || item.Offset != -16 || item.Length != 8 {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestCollectLiteralMemrangeRejectsNonPositiveSize(t *testing.T) {
	l := action.Parse("collect $(0x1000,0)")
	if l.Kind != action.Invalid {
		t.Fatalf("expected Invalid for zero size, got %+v", l)
	}
}

func TestCollectMultipleItemsWithNestedCommas(t *testing.T) {
	l := action.Parse("collect $($fp,-4,4), counter, $(0x4000,2)")
	if l.Kind != action.Collect || len(l.Items) != 3 {
		t.Fatalf("unexpected parse: %+v", l)
	}
}

func TestUnrecognisedKeyword(t *testing.T) {
	l := action.Parse("frobnicate")
	if l.Kind != action.Invalid {
		t.Fatalf("expected Invalid, got %+v", l)
	}
}

func TestCollectRejectsComputedExpression(t *testing.T) {
	l := action.Parse("collect *(ptr + 4)")
	if l.Kind != action.Invalid {
		t.Fatalf("expected Invalid for computed expression, got %+v", l)
	}
}
