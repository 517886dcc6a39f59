// Command tracepointd is a standalone line-oriented front end for the
// tracepoint subsystem, modelled on the teacher's top-level gopher2600.go
// wiring: construct the subsystems once, then hand them to a small runtime
// loop. The symbol table, expression evaluator, line-table lookup, and
// remote transport are the external collaborators named out of scope in the
// package docs; this command supplies minimal stand-ins for all of them so
// the subsystem can run standalone, the same way gopher2600.go falls back
// to gui.Stub{} when no GUI has been requested.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/tracepointd/command"
	"github.com/jetsetilly/tracepointd/config"
	"github.com/jetsetilly/tracepointd/logger"
	"github.com/jetsetilly/tracepointd/session"
	"github.com/jetsetilly/tracepointd/store"
	"github.com/jetsetilly/tracepointd/symbol"
	"github.com/jetsetilly/tracepointd/terrs"
)

func main() {
	flgs := flag.NewFlagSet("tracepointd", flag.ExitOnError)
	echo := flgs.Bool("echo", false, "echo every packet sent to the stub transport")
	logTail := flgs.Int("logtail", 0, "print the last N log entries on exit")
	flgs.Parse(os.Args[1:])

	log := logger.New(1000)

	scanner := bufio.NewScanner(os.Stdin)
	d := &command.Dispatcher{
		Store:    store.New(nil),
		Session:  session.New(&stubTransport{log: log, echo: *echo}, config.Default()),
		Tab:      stubTable{},
		Plat:     stubPlatform{},
		Locator:  stubLocator{},
		Printer:  stdoutPrinter{},
		Confirm:  stdinConfirmer{scanner: scanner},
		Eval:     stubEvaluator{},
		LineRes:  stubLineResolver{},
		Frame:    stubFrameContext{},
		Language: "c",
		Radix:    10,
	}

	run(d, scanner)

	if *logTail > 0 {
		log.Tail(os.Stderr, *logTail)
	}
}

// run drives the read-dispatch loop until stdin closes. An EnterActionsEditor
// handoff switches temporarily into the multi-line action reader.
func run(d *command.Dispatcher, scanner *bufio.Scanner) {
	fmt.Print("(tp) ")
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			fmt.Print("(tp) ")
			continue
		}

		err := d.Dispatch(line)

		var editor *command.EnterActionsEditor
		switch {
		case err == nil:
		case errors.As(err, &editor):
			d.SetActions(editor.Tracepoint, readActionLines(scanner))
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}

		fmt.Print("(tp) ")
	}
	fmt.Println()
}

// readActionLines gathers raw action lines until the "end" that closes the
// actions block, tracking while-stepping nesting the same way
// session.LoadTracepoints does when reparsing a saved script.
func readActionLines(scanner *bufio.Scanner) []string {
	var lines []string
	depth := 0
	for scanner.Scan() {
		trimmed := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(trimmed), "while-stepping") {
			depth++
		}
		if trimmed == "end" {
			if depth > 0 {
				depth--
				lines = append(lines, trimmed)
				continue
			}
			break
		}
		lines = append(lines, trimmed)
	}
	return lines
}

// stubTransport always acknowledges with "OK", logging every packet it is
// asked to send. A real remote-packet transport is an external collaborator
// per the package docs; this is the minimal stand-in that lets the rest of
// the subsystem run without one.
type stubTransport struct {
	log  *logger.Logger
	echo bool
}

func (t *stubTransport) PutPkt(pkt string) error {
	t.log.Logf(logger.Allow, "transport", "-> %s", pkt)
	if t.echo {
		fmt.Printf("-> %s\n", pkt)
	}
	return nil
}

func (t *stubTransport) GetPkt() (string, error) {
	t.log.Log(logger.Allow, "transport", "<- OK (stub)")
	return "OK", nil
}

// stubLocator resolves only raw hexadecimal addresses ("0x...."). A real
// locator backed by a symbol table and expression parser is an external
// collaborator.
type stubLocator struct{}

func (stubLocator) Resolve(loc string) (uint64, string, int, string, error) {
	loc = strings.TrimSpace(loc)
	if strings.HasPrefix(loc, "0x") || strings.HasPrefix(loc, "0X") {
		addr, err := strconv.ParseUint(loc[2:], 16, 64)
		if err != nil {
			return 0, "", 0, "", terrs.New(terrs.InvalidArgument, "%q is not a valid address", loc)
		}
		return addr, "", 0, loc, nil
	}
	return 0, "", 0, "", terrs.New(terrs.NotRemote, "no symbol table available; use a raw address (0x....)")
}

// stubTable never resolves a symbol. The real symbol table is an external
// collaborator.
type stubTable struct{}

func (stubTable) InnermostBlock(pc uint64) *symbol.Block { return nil }
func (stubTable) RegisterIndex(name string) (int, bool)  { return 0, false }
func (stubTable) Lookup(name string, pc uint64) (symbol.Symbol, bool) {
	return symbol.Symbol{}, false
}

// stubPlatform assumes a generic 64-bit target. The real platform
// description comes from the surrounding debugger.
type stubPlatform struct{}

func (stubPlatform) RegRawSize(r int) int        { return 8 }
func (stubPlatform) MaxRegisterVirtualSize() int { return 8 }
func (stubPlatform) FPRegNum() int               { return 0 }
func (stubPlatform) NumRegisters() int           { return 16 }
func (stubPlatform) TypeLength(t string) int     { return 8 }

// stubFrameContext has no frame cache to consult. The real one belongs to
// the surrounding debugger.
type stubFrameContext struct{}

func (stubFrameContext) CurrentPC() (uint64, error) {
	return 0, terrs.New(terrs.NotRemote, "no frame context available")
}
func (stubFrameContext) Resolve(pc uint64) (int, string, string) { return 0, "", "" }

// stubLineResolver has no line table to consult.
type stubLineResolver struct{}

func (stubLineResolver) ResolveLine(loc string) (uint64, uint64, error) {
	return 0, 0, terrs.New(terrs.NotRemote, "no line table available")
}
func (stubLineResolver) NextLineWithCode(from uint64) (uint64, uint64, error) {
	return 0, 0, terrs.New(terrs.NotRemote, "no line table available")
}
func (stubLineResolver) CurrentLineRange() (uint64, uint64, error) {
	return 0, 0, terrs.New(terrs.NotRemote, "no line table available")
}

// stubEvaluator has no convenience-variable expression evaluator.
type stubEvaluator struct{}

func (stubEvaluator) EvalInt(expr string) (int64, error) {
	return 0, terrs.New(terrs.NotRemote, "no expression evaluator available")
}

// stdoutPrinter writes dispatcher feedback straight to stdout.
type stdoutPrinter struct{}

func (stdoutPrinter) Print(style string, format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
}

// stdinConfirmer reads a yes/no answer from the same scanner the main loop
// uses, so the two never race over stdin.
type stdinConfirmer struct {
	scanner *bufio.Scanner
}

func (c stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s (y or n) ", prompt)
	if !c.scanner.Scan() {
		return false
	}
	ans := strings.ToLower(strings.TrimSpace(c.scanner.Text()))
	return ans == "y" || ans == "yes"
}
