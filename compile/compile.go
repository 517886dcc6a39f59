package compile

import (
	"strings"

	"github.com/jetsetilly/tracepointd/action"
	"github.com/jetsetilly/tracepointd/config"
	"github.com/jetsetilly/tracepointd/memrange"
	"github.com/jetsetilly/tracepointd/symbol"
)

// Result is the output of compiling one tracepoint's action list: the two
// finalised CollectionLists (trap and stepping) plus the step count for the
// QTDP header and any non-fatal diagnostics accumulated along the way.
type Result struct {
	Trap      *memrange.Set
	Stepping  *memrange.Set
	StepCount int

	// Diagnostics accumulates every SymbolCollector-level "no emission"
	// message (unresolved names, unsupported classes, etc). None of these
	// abort compilation — see §4.3 and §7's BadAction propagation policy.
	Diagnostics []string
}

// Compile runs the §4.4 algorithm over lines (a tracepoint's action list,
// already classified by action.Parse), resolving collect-items at address
// pc via tab and plat.
func Compile(cfg config.Config, tab symbol.Table, plat symbol.Platform, pc uint64, lines []action.Line) Result {
	res := Result{
		Trap:     memrange.New(cfg),
		Stepping: memrange.New(cfg),
	}

	active := res.Trap

	for _, line := range lines {
		switch line.Kind {
		case action.Invalid:
			// dropped by the line validator; nothing to compile.
			continue

		case action.Collect:
			for _, item := range line.Items {
				res.Diagnostics = append(res.Diagnostics, compileItem(tab, plat, pc, item, active)...)
			}

		case action.WhileStepping:
			res.StepCount = line.StepCount
			active = res.Stepping

		case action.End:
			if active == res.Stepping {
				active = res.Trap
			} else {
				// "end" closing the whole action list: stop compilation.
				res.Trap.Finalize()
				res.Stepping.Finalize()
				return res
			}
		}
	}

	res.Trap.Finalize()
	res.Stepping.Finalize()
	return res
}

func compileItem(tab symbol.Table, plat symbol.Platform, pc uint64, item action.Item, into *memrange.Set) (diagnostics []string) {
	switch item.Kind {
	case action.AllRegisters:
		return symbol.CollectAllRegisters(plat, into)

	case action.AllArgs:
		return symbol.CollectAllArgs(tab, plat, pc, into)

	case action.AllLocals:
		return symbol.CollectAllLocals(tab, plat, pc, into)

	case action.LiteralMemrange:
		typ := 0
		if item.RegisterName != "" {
			idx, ok := tab.RegisterIndex(item.RegisterName)
			if !ok {
				return []string{"unknown register: $" + item.RegisterName}
			}
			typ = idx
		}
		if err := into.AddMemrange(typ, item.Offset, item.Length); err != nil {
			return []string{err.Error()}
		}
		return nil

	case action.Expression:
		if strings.HasPrefix(item.Expr, "$") {
			idx, ok := tab.RegisterIndex(strings.TrimPrefix(item.Expr, "$"))
			if !ok {
				return []string{"unknown register: " + item.Expr}
			}
			if err := into.AddRegister(idx); err != nil {
				return []string{err.Error()}
			}
			return nil
		}

		sym, ok := tab.Lookup(item.Expr, pc)
		if !ok {
			return []string{item.Expr + ": unresolved symbol"}
		}
		if d := symbol.Collect(plat, sym, into); d != "" {
			return []string{d}
		}
		return nil
	}
	return nil
}
