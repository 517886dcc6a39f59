package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jetsetilly/tracepointd/action"
	"github.com/jetsetilly/tracepointd/session"
	"github.com/jetsetilly/tracepointd/store"
	"github.com/jetsetilly/tracepointd/symbol"
	"github.com/jetsetilly/tracepointd/terrs"
)

// Printer is how the dispatcher reports feedback back to the UI, the same
// inversion the teacher's Debugger.printLine gives its own command
// handlers. An external collaborator per §1.
type Printer interface {
	Print(style string, format string, args ...interface{})
}

// Locator resolves a user-typed location specifier (an address or a
// linespec) to a target PC plus optional source locator fields. An
// external collaborator standing in for the symbol table and expression
// parser named out of scope in §1.
type Locator interface {
	Resolve(loc string) (addr uint64, sourceFile string, sourceLine int, canonical string, err error)
}

// Confirmer asks the user to confirm an argument-less delete (which removes
// every tracepoint). An external collaborator (line editor / UI).
type Confirmer interface {
	Confirm(prompt string) bool
}

// EnterActionsEditor is returned by the "actions" command: entering the
// multi-line action editor is an external collaborator's job (the
// readline-based line editor named out of scope in §1), so the dispatcher
// only resolves which tracepoint the editor should target and hands
// control back to the caller. Once the caller has gathered the raw lines,
// it should call Dispatcher.SetActions with them.
type EnterActionsEditor struct {
	Tracepoint *store.Tracepoint
}

func (e *EnterActionsEditor) Error() string {
	return fmt.Sprintf("enter action lines for tracepoint %d", e.Tracepoint.Number)
}

// Dispatcher is the §6 user-command table: a thin token-driven switch over
// the store, session, and the external collaborators above.
type Dispatcher struct {
	Store   *store.Store
	Session *session.Session
	Tab     symbol.Table
	Plat    symbol.Platform
	Locator Locator
	Printer Printer
	Confirm Confirmer
	Eval    store.ConvenienceEvaluator
	LineRes session.LineResolver
	Frame   session.FrameContext

	Language string
	Radix    int
}

// Dispatch classifies and executes one command line. Each command matches
// exactly one action per §6.
func (d *Dispatcher) Dispatch(line string) error {
	tk := tokenise(line)
	kw, ok := tk.get()
	if !ok {
		return nil
	}

	switch strings.ToLower(kw) {
	case "trace":
		return d.trace(tk)
	case "info":
		return d.info(tk)
	case "enable":
		return d.setEnabled(tk, true)
	case "disable":
		return d.setEnabled(tk, false)
	case "delete":
		return d.delete(tk)
	case "passcount":
		return d.passcount(tk)
	case "actions":
		return d.actions(tk)
	case "tstart":
		return d.Session.Start(d.Store, d.Tab, d.Plat)
	case "tstop":
		return d.Session.Stop()
	case "tstatus":
		return d.Session.Status()
	case "tfind":
		return d.tfind(tk)
	case "tdump":
		return d.tdump()
	case "save-tracepoints":
		return d.saveTracepoints(tk)
	case "scope":
		return d.scope(tk)
	default:
		return terrs.New(terrs.InvalidArgument, "unrecognised command: %s", kw)
	}
}

func (d *Dispatcher) trace(tk *tokens) error {
	loc := strings.TrimSpace(tk.remainder())
	if loc == "" {
		return terrs.New(terrs.InvalidArgument, "trace requires a location")
	}

	addr, file, line, canonical, err := d.Locator.Resolve(loc)
	if err != nil {
		return err
	}

	tp := d.Store.Create(addr, file, line, canonical, d.Language, d.Radix)
	d.print("tracepoint %d at %s", tp.Number, loc)
	return nil
}

func (d *Dispatcher) info(tk *tokens) error {
	kw, ok := tk.get()
	if !ok || !strings.EqualFold(kw, "tracepoints") {
		return terrs.New(terrs.InvalidArgument, `expected "tracepoints"`)
	}

	rest := strings.TrimSpace(tk.remainder())
	if rest == "" {
		if d.Store.Len() == 0 {
			d.print("no tracepoints")
			return nil
		}
		d.Store.ForEach(d.printTracepoint)
		return nil
	}

	tp, err := d.Store.LookupByNumber(rest, d.Eval)
	if err != nil {
		return err
	}
	d.printTracepoint(tp)
	return nil
}

func (d *Dispatcher) setEnabled(tk *tokens, enable bool) error {
	if kw, _ := tk.get(); !strings.EqualFold(kw, "tracepoints") {
		return terrs.New(terrs.InvalidArgument, `expected "tracepoints"`)
	}

	numbers, err := parseNumberList(tk.remainder())
	if err != nil {
		return err
	}

	for _, tp := range d.Store.IterFiltered(numbers) {
		if enable {
			d.Store.Enable(tp)
		} else {
			d.Store.Disable(tp)
		}
	}
	return nil
}

func (d *Dispatcher) delete(tk *tokens) error {
	if kw, _ := tk.get(); !strings.EqualFold(kw, "tracepoints") {
		return terrs.New(terrs.InvalidArgument, `expected "tracepoints"`)
	}

	numbers, err := parseNumberList(tk.remainder())
	if err != nil {
		return err
	}

	if len(numbers) == 0 && d.Confirm != nil && !d.Confirm.Confirm("delete all tracepoints?") {
		return nil
	}

	for _, tp := range d.Store.IterFiltered(numbers) {
		if err := d.Store.Delete(tp); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) passcount(tk *tokens) error {
	nText, ok := tk.get()
	if !ok {
		return terrs.New(terrs.InvalidArgument, "passcount requires a count")
	}
	n, err := strconv.Atoi(nText)
	if err != nil {
		return terrs.New(terrs.InvalidArgument, "passcount: %v", err)
	}

	target := strings.TrimSpace(tk.remainder())
	switch {
	case target == "":
		tp, err := d.Store.LookupByNumber("", d.Eval)
		if err != nil {
			return err
		}
		d.Store.SetPassCount(tp, n)
	case strings.EqualFold(target, "all"):
		d.Store.SetPassCount(nil, n)
	default:
		tp, err := d.Store.LookupByNumber(target, d.Eval)
		if err != nil {
			return err
		}
		d.Store.SetPassCount(tp, n)
	}
	return nil
}

func (d *Dispatcher) actions(tk *tokens) error {
	text := strings.TrimSpace(tk.remainder())
	tp, err := d.Store.LookupByNumber(text, d.Eval)
	if err != nil {
		return err
	}
	return &EnterActionsEditor{Tracepoint: tp}
}

// SetActions classifies raw (the lines gathered by the caller's multi-line
// editor) and installs the recognised ones on tp. BadAction lines are
// recovered locally per §7: warned about via Printer and dropped, never
// aborting the rest of the action list.
func (d *Dispatcher) SetActions(tp *store.Tracepoint, raw []string) {
	parsed := make([]action.Line, 0, len(raw))
	for _, r := range raw {
		ln := action.Parse(r)
		if ln.Kind == action.Invalid {
			d.print("%s", ln.Warning)
			continue
		}
		parsed = append(parsed, ln)
	}
	tp.Actions = parsed
}

func (d *Dispatcher) tfind(tk *tokens) error {
	kw, ok := tk.get()
	if !ok {
		return terrs.New(terrs.InvalidArgument, "tfind requires an argument")
	}

	switch strings.ToLower(kw) {
	case "-":
		c := d.Session.Cursor()
		return d.Session.FindNumber(c.Frame-1, d.Frame)
	case "start":
		return d.Session.FindNumber(0, d.Frame)
	case "end", "none":
		return d.Session.FindNone(d.Frame)
	case "pc":
		pc, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(tk.remainder()), "0x"), 16, 64)
		if err != nil {
			return terrs.New(terrs.InvalidArgument, "tfind pc: %v", err)
		}
		return d.Session.FindPC(pc, d.Frame)
	case "tracepoint":
		n, err := strconv.Atoi(strings.TrimSpace(tk.remainder()))
		if err != nil {
			return terrs.New(terrs.InvalidArgument, "tfind tracepoint: %v", err)
		}
		return d.Session.FindTracepoint(n, d.Frame)
	case "line":
		return d.Session.FindLine(strings.TrimSpace(tk.remainder()), d.LineRes, d.Frame)
	case "range":
		return d.tfindRange(tk, false)
	case "outside":
		return d.tfindRange(tk, true)
	default:
		n, err := strconv.Atoi(kw)
		if err != nil {
			return terrs.New(terrs.InvalidArgument, "tfind: unrecognised argument %q", kw)
		}
		return d.Session.FindNumber(int64(n), d.Frame)
	}
}

func (d *Dispatcher) tfindRange(tk *tokens, outside bool) error {
	parts := strings.Split(tk.remainder(), ",")
	if len(parts) != 2 {
		return terrs.New(terrs.InvalidArgument, "range requires two comma-separated addresses")
	}
	start, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(parts[0]), "0x"), 16, 64)
	if err != nil {
		return terrs.New(terrs.InvalidArgument, "range: %v", err)
	}
	end, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(parts[1]), "0x"), 16, 64)
	if err != nil {
		return terrs.New(terrs.InvalidArgument, "range: %v", err)
	}
	if outside {
		return d.Session.FindOutside(start, end, d.Frame)
	}
	return d.Session.FindRange(start, end, d.Frame)
}

func (d *Dispatcher) tdump() error {
	c := d.Session.Cursor()
	if !c.Replaying() {
		return terrs.New(terrs.NotFound, "not replaying")
	}
	d.print("frame %d (tracepoint %d) at %s:%d in %s", c.Frame, c.Tracepoint, c.File, c.Line, c.Func)
	return nil
}

func (d *Dispatcher) saveTracepoints(tk *tokens) error {
	path := strings.TrimSpace(tk.remainder())
	if path == "" {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints requires a file name")
	}
	return session.SaveTracepoints(path, d.Store, func(tp *store.Tracepoint) string {
		if tp.Canonical != "" {
			return tp.Canonical
		}
		return fmt.Sprintf("*0x%x", tp.Address)
	})
}

func (d *Dispatcher) scope(tk *tokens) error {
	loc := strings.TrimSpace(tk.remainder())
	if loc == "" {
		return terrs.New(terrs.InvalidArgument, "scope requires a location")
	}

	addr, _, _, _, err := d.Locator.Resolve(loc)
	if err != nil {
		return err
	}

	block := d.Tab.InnermostBlock(addr)
	for block != nil {
		for _, sym := range block.Symbols {
			d.print("%s: %s", sym.Name, sym.Class)
		}
		if block.FunctionBoundary {
			break
		}
		block = block.Parent
	}
	return nil
}

func (d *Dispatcher) print(format string, args ...interface{}) {
	if d.Printer != nil {
		d.Printer.Print("feedback", format, args...)
	}
}

func (d *Dispatcher) printTracepoint(tp *store.Tracepoint) {
	state := "enabled"
	if !tp.Enabled {
		state = "disabled"
	}
	d.print("tracepoint %d: %s, pass=%d, step=%d", tp.Number, state, tp.PassCount, tp.StepCount)
}

// parseNumberList parses a comma- or space-separated list of tracepoint
// numbers. An empty string yields a nil slice, which the store interprets
// as "every tracepoint" per §4.6.
func parseNumberList(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, terrs.New(terrs.InvalidArgument, "%q is not a tracepoint number", f)
		}
		out = append(out, n)
	}
	return out, nil
}
