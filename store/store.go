package store

import (
	"strconv"
	"strings"

	"github.com/jetsetilly/tracepointd/action"
	"github.com/jetsetilly/tracepointd/terrs"
)

// Tracepoint is one user-defined trace location, per §3. The TracepointStore
// is the sole owner of every Tracepoint; no other component retains a
// durable reference.
type Tracepoint struct {
	Number int

	Address    uint64
	SourceFile string
	SourceLine int
	Canonical  string // canonical address string, for re-resolution

	Language string
	Radix    int

	Enabled   bool
	PassCount int
	StepCount int
	Condition string

	Actions []action.Line
}

// UIHook lets a caller observe catalogue changes without the store needing
// to know anything about the surrounding UI, the same inversion the
// teacher's Debugger.printLine callback gives its own catalogues.
type UIHook interface {
	TracepointCreated(tp *Tracepoint)
	TracepointDeleted(tp *Tracepoint)
}

// ConvenienceEvaluator resolves a convenience-variable expression (e.g.
// "$tpnum") to an integer. It is an external collaborator — the real
// expression evaluator is supplied by the surrounding debugger.
type ConvenienceEvaluator interface {
	EvalInt(expr string) (int64, error)
}

// Store is the TracepointStore: a numbered, insertion-ordered catalogue.
type Store struct {
	hook UIHook

	tps   []*Tracepoint
	count int
}

// New creates an empty Store. hook may be nil.
func New(hook UIHook) *Store {
	return &Store{hook: hook, tps: make([]*Tracepoint, 0, 10)}
}

// Create allocates a new Tracepoint, assigning it count+1 and appending it
// to the catalogue. Per §4.6, address resolution and any error-producing
// validation must happen in the caller before Create is invoked — Create
// itself cannot fail, so no partially-constructed entry is ever possible.
func (s *Store) Create(address uint64, sourceFile string, sourceLine int, canonical, language string, radix int) *Tracepoint {
	s.count++
	tp := &Tracepoint{
		Number:     s.count,
		Address:    address,
		SourceFile: sourceFile,
		SourceLine: sourceLine,
		Canonical:  canonical,
		Language:   language,
		Radix:      radix,
		Enabled:    true,
	}
	s.tps = append(s.tps, tp)
	if s.hook != nil {
		s.hook.TracepointCreated(tp)
	}
	return tp
}

// LookupByNumber parses text as either a decimal tracepoint number, an
// empty string (meaning "the last created tracepoint"), or a
// convenience-variable reference evaluated via cv. An unknown number yields
// UnknownTracepoint (a warning, non-fatal); any other parse failure yields
// InvalidArgument.
func (s *Store) LookupByNumber(text string, cv ConvenienceEvaluator) (*Tracepoint, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		if len(s.tps) == 0 {
			return nil, terrs.New(terrs.UnknownTracepoint, "no tracepoints defined")
		}
		return s.tps[len(s.tps)-1], nil
	}

	num, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		if cv == nil {
			return nil, terrs.New(terrs.InvalidArgument, "%q is not a tracepoint number", text)
		}
		num, err = cv.EvalInt(text)
		if err != nil {
			return nil, terrs.New(terrs.InvalidArgument, "%q: %v", text, err)
		}
	}

	for _, tp := range s.tps {
		if int64(tp.Number) == num {
			return tp, nil
		}
	}
	return nil, terrs.New(terrs.UnknownTracepoint, "no tracepoint number %d", num)
}

// Enable flips tp's Enabled flag on. Idempotent.
func (s *Store) Enable(tp *Tracepoint) { tp.Enabled = true }

// Disable flips tp's Enabled flag off. Idempotent.
func (s *Store) Disable(tp *Tracepoint) { tp.Enabled = false }

// Delete unlinks tp from the catalogue, invokes the UI hook, and frees its
// condition and action list. Other surviving tracepoints keep their
// numbers; the catalogue is compacted into a freshly allocated slice using
// the same head/tail make+copy idiom the teacher uses for its own
// breakpoint/trace lists.
func (s *Store) Delete(tp *Tracepoint) error {
	idx := -1
	for i, t := range s.tps {
		if t == tp {
			idx = i
			break
		}
	}
	if idx == -1 {
		return terrs.New(terrs.UnknownTracepoint, "tracepoint #%d is not defined", tp.Number)
	}

	h := s.tps[:idx]
	tail := s.tps[idx+1:]
	compacted := make([]*Tracepoint, len(h)+len(tail), cap(s.tps))
	copy(compacted, h)
	copy(compacted[len(h):], tail)
	s.tps = compacted

	tp.Condition = ""
	tp.Actions = nil

	if s.hook != nil {
		s.hook.TracepointDeleted(tp)
	}
	return nil
}

// ForEach visits every tracepoint in insertion order.
func (s *Store) ForEach(fn func(*Tracepoint)) {
	for _, tp := range s.tps {
		fn(tp)
	}
}

// IterFiltered returns the tracepoints named by numbers, or every
// tracepoint (in insertion order) when numbers is empty — the "no argument
// means all" rule §4.6 gives enable/disable/delete.
func (s *Store) IterFiltered(numbers []int) []*Tracepoint {
	if len(numbers) == 0 {
		return s.tps
	}

	want := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		want[n] = true
	}

	var out []*Tracepoint
	for _, tp := range s.tps {
		if want[tp.Number] {
			out = append(out, tp)
		}
	}
	return out
}

// SetPassCount updates tp's pass count, or every tracepoint's pass count
// when tp is nil (the "all" form of the passcount command).
func (s *Store) SetPassCount(tp *Tracepoint, count int) {
	if tp == nil {
		for _, t := range s.tps {
			t.PassCount = count
		}
		return
	}
	tp.PassCount = count
}

// Len returns the number of tracepoints currently in the catalogue.
func (s *Store) Len() int { return len(s.tps) }
