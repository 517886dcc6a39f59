package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jetsetilly/tracepointd/action"
	"github.com/jetsetilly/tracepointd/store"
	"github.com/jetsetilly/tracepointd/terrs"
)

// Scribe persists the tracepoint catalogue to a file, one line at a time,
// using the create-if-absent / commit idiom of the teacher's own
// script.Scribe — adapted here from "record the user's input" to "serialise
// the tracepoint catalogue". Each Commit writes straight to the file; nothing
// is buffered.
type Scribe struct {
	file *os.File
}

// IsActive reports whether a session is currently open.
func (scr Scribe) IsActive() bool { return scr.file != nil }

// StartSession opens path for writing. It refuses to overwrite an existing
// file, mirroring the teacher's own scribe.
func (scr *Scribe) StartSession(path string) error {
	if scr.IsActive() {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints: a session is already active")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints: %s already exists", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints: cannot create %s: %v", path, err)
	}
	scr.file = f
	return nil
}

// EndSession closes the open file, if any.
func (scr *Scribe) EndSession() (rerr error) {
	if !scr.IsActive() {
		return nil
	}
	defer func() { scr.file = nil }()
	if err := scr.file.Close(); err != nil {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints: %v", err)
	}
	return nil
}

// Commit writes line to the open session, newline-terminated.
func (scr *Scribe) Commit(line string) error {
	if !scr.IsActive() {
		return nil
	}
	text := line + "\n"
	n, err := io.WriteString(scr.file, text)
	if err != nil {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints: %v", err)
	}
	if n != len(text) {
		return terrs.New(terrs.InvalidArgument, "save-tracepoints: output truncated")
	}
	return nil
}

// SaveTracepoints serialises st to path in the persisted format described
// in §6: one trace/passcount/actions block per tracepoint, in catalogue
// order. locate resolves a tracepoint back to the location specifier that
// should follow "trace" (an address or a line specifier) — an external
// collaborator, since reversing an address back to a linespec belongs to
// the symbol table.
func SaveTracepoints(path string, st *store.Store, locate func(*store.Tracepoint) string) (rerr error) {
	var scr Scribe
	if err := scr.StartSession(path); err != nil {
		return err
	}
	defer func() {
		if err := scr.EndSession(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	var failure error
	st.ForEach(func(tp *store.Tracepoint) {
		if failure != nil {
			return
		}
		failure = writeTracepointBlock(&scr, tp, locate(tp))
	})
	return failure
}

func writeTracepointBlock(scr *Scribe, tp *store.Tracepoint, loc string) error {
	if err := scr.Commit(fmt.Sprintf("trace %s", loc)); err != nil {
		return err
	}
	if tp.PassCount != 0 {
		if err := scr.Commit(fmt.Sprintf("  passcount %d", tp.PassCount)); err != nil {
			return err
		}
	}
	if len(tp.Actions) == 0 {
		return nil
	}

	if err := scr.Commit("  actions"); err != nil {
		return err
	}

	depth := 1
	for _, line := range tp.Actions {
		if line.Kind == action.End && depth > 1 {
			depth--
		}
		if err := scr.Commit(strings.Repeat("  ", depth+1) + line.Raw); err != nil {
			return err
		}
		if line.Kind == action.WhileStepping {
			depth++
		}
	}

	return scr.Commit("  end")
}

// ParsedTracepoint is one trace/passcount/actions block recovered from a
// save-tracepoints file by LoadTracepoints.
type ParsedTracepoint struct {
	Location    string
	PassCount   int
	ActionLines []string
}

// LoadTracepoints parses a file produced by SaveTracepoints back into a
// sequence of directives. Re-issuing them through the same trace/passcount/
// actions command path that created the original catalogue reconstructs an
// equivalent store (Testable Property 5); LoadTracepoints itself only
// recovers structure, since re-creating the tracepoints requires the
// symbol table to re-resolve each location.
func LoadTracepoints(path string) ([]ParsedTracepoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, terrs.New(terrs.InvalidArgument, "save-tracepoints: cannot open %s: %v", path, err)
	}
	defer f.Close()

	var out []ParsedTracepoint
	var current *ParsedTracepoint
	inActions := false
	nestedDepth := 0 // open while-stepping blocks within the current actions section

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		raw := scanner.Text()
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "trace "):
			if current != nil {
				out = append(out, *current)
			}
			current = &ParsedTracepoint{Location: strings.TrimPrefix(trimmed, "trace ")}
			inActions = false
			nestedDepth = 0

		case strings.HasPrefix(trimmed, "passcount "):
			if current == nil {
				return nil, terrs.New(terrs.InvalidArgument, "save-tracepoints: passcount outside a trace block")
			}
			n, err := strconv.Atoi(strings.TrimPrefix(trimmed, "passcount "))
			if err != nil {
				return nil, terrs.New(terrs.InvalidArgument, "save-tracepoints: malformed passcount: %v", err)
			}
			current.PassCount = n

		case trimmed == "actions":
			inActions = true
			nestedDepth = 0

		case trimmed == "end" && inActions:
			// a nested "end" closes a while-stepping sub-block and is part
			// of the action list; the un-nested "end" closes "actions"
			// itself and is not.
			if nestedDepth > 0 {
				nestedDepth--
				current.ActionLines = append(current.ActionLines, trimmed)
			} else {
				inActions = false
			}

		default:
			if current == nil {
				return nil, terrs.New(terrs.InvalidArgument, "save-tracepoints: action line outside a trace block")
			}
			if inActions {
				current.ActionLines = append(current.ActionLines, trimmed)
				if strings.HasPrefix(trimmed, "while-stepping") {
					nestedDepth++
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, terrs.New(terrs.InvalidArgument, "save-tracepoints: %v", err)
	}
	if current != nil {
		out = append(out, *current)
	}

	return out, nil
}
