package action

// Kind classifies a parsed action line.
type Kind int

const (
	Collect Kind = iota
	WhileStepping
	End
	Invalid
)

func (k Kind) String() string {
	switch k {
	case Collect:
		return "collect"
	case WhileStepping:
		return "while-stepping"
	case End:
		return "end"
	}
	return "invalid"
}

// ItemKind classifies one collect-item within a Collect line.
type ItemKind int

const (
	// AllRegisters is the $reg sigil: collect every register at this PC.
	AllRegisters ItemKind = iota
	// AllArgs is the $arg sigil: collect every argument at this PC.
	AllArgs
	// AllLocals is the $loc sigil: collect every local at this PC.
	AllLocals
	// LiteralMemrange is a $(...) literal memrange.
	LiteralMemrange
	// Expression is a plain variable or register reference.
	Expression
)

// Item is one parsed collect-item.
type Item struct {
	Kind ItemKind

	// RegisterName, Offset, Length are populated for LiteralMemrange. An
	// empty RegisterName means the literal is an absolute address (type 0);
	// otherwise RegisterName names the base register.
	RegisterName string
	Offset       int64
	Length       int64

	// Expr is populated for Expression: the raw variable or register
	// reference text, resolved later by the external symbol table /
	// register-name lookup (see symbol.Table / symbol.Platform) — ActionParser
	// only validates syntactic shape, not whether the name exists.
	Expr string
}

// Line is one classified action line, as stored in a Tracepoint's action
// list (§3's ActionLine).
type Line struct {
	Raw string
	Kind Kind

	// Items is populated when Kind == Collect.
	Items []Item

	// StepCount is populated when Kind == WhileStepping. -1 means
	// "unbounded, target decides" (no operand given).
	StepCount int

	// Warning explains why Kind == Invalid. Empty for an empty input line,
	// which is Invalid but silently skipped per the grammar.
	Warning string
}
