package symbol

import (
	"fmt"

	"github.com/jetsetilly/tracepointd/memrange"
)

// Collect emits sym's collection descriptor(s) into into, dispatched by
// sym.Class per §4.3's class map. It returns a non-empty diagnostic (and
// emits nothing) for classes that produce no emission: Const, OptimizedOut,
// Unresolved (not collectable), and Arg, RefArg (explicitly unsupported).
// An unrecognised Class also produces a diagnostic and no emission.
//
// Collect never returns a Go error: per §4.3, every outcome here is a
// recoverable diagnostic, not a failure that aborts compilation of the
// tracepoint.
func Collect(plat Platform, sym Symbol, into *memrange.Set) (diagnostic string) {
	switch sym.Class {
	case Static:
		length := plat.TypeLength(sym.Type)
		if err := into.AddMemrange(0, sym.Value, int64(length)); err != nil {
			return err.Error()
		}
		return ""

	case Register, RegParm:
		if err := into.AddRegister(sym.Register); err != nil {
			return err.Error()
		}
		return ""

	case RegParmAddr:
		length := plat.TypeLength(sym.Type)
		if err := into.AddMemrange(sym.Register, 0, int64(length)); err != nil {
			return err.Error()
		}
		return ""

	case Local, LocalArg:
		length := plat.TypeLength(sym.Type)
		if err := into.AddMemrange(plat.FPRegNum(), sym.Value, int64(length)); err != nil {
			return err.Error()
		}
		return ""

	case BaseReg, BaseRegArg:
		length := plat.TypeLength(sym.Type)
		if err := into.AddMemrange(sym.Register, sym.Value, int64(length)); err != nil {
			return err.Error()
		}
		return ""

	case Const, OptimizedOut, Unresolved:
		return fmt.Sprintf("%s: not collectable (%s)", sym.Name, sym.Class)

	case Arg, RefArg:
		return fmt.Sprintf("%s: unsupported storage class (%s)", sym.Name, sym.Class)

	default:
		return fmt.Sprintf("%s: unrecognised storage class", sym.Name)
	}
}

// localClasses and argClasses are the §4.3 membership sets used by
// CollectAllLocals/CollectAllArgs.
var localClasses = map[Class]bool{
	Local:    true,
	Static:   true,
	Register: true,
	BaseReg:  true,
}

var argClasses = map[Class]bool{
	Arg:         true,
	LocalArg:    true,
	RefArg:      true,
	RegParm:     true,
	RegParmAddr: true,
	BaseRegArg:  true,
}

// walkBlocks visits block and its ancestors outward, stopping after the
// first block marked as a function boundary, calling visit with every
// symbol along the way.
func walkBlocks(block *Block, visit func(Symbol)) {
	for block != nil {
		for _, s := range block.Symbols {
			visit(s)
		}
		if block.FunctionBoundary {
			return
		}
		block = block.Parent
	}
}

// CollectAllLocals implements the $loc collect-item: every symbol of
// classes {local, static, register, basereg} visible from pc outward to the
// enclosing function boundary.
func CollectAllLocals(tab Table, plat Platform, pc uint64, into *memrange.Set) (diagnostics []string) {
	block := tab.InnermostBlock(pc)
	walkBlocks(block, func(s Symbol) {
		if !localClasses[s.Class] {
			return
		}
		if d := Collect(plat, s, into); d != "" {
			diagnostics = append(diagnostics, d)
		}
	})
	return diagnostics
}

// CollectAllArgs implements the $arg collect-item: every symbol of classes
// {arg, local-arg, ref-arg, regparm, regparm-addr, basereg-arg} visible from
// pc outward to the enclosing function boundary.
func CollectAllArgs(tab Table, plat Platform, pc uint64, into *memrange.Set) (diagnostics []string) {
	block := tab.InnermostBlock(pc)
	walkBlocks(block, func(s Symbol) {
		if !argClasses[s.Class] {
			return
		}
		if d := Collect(plat, s, into); d != "" {
			diagnostics = append(diagnostics, d)
		}
	})
	return diagnostics
}

// CollectAllRegisters implements the $reg collect-item: every addressable
// register at this PC.
func CollectAllRegisters(plat Platform, into *memrange.Set) (diagnostics []string) {
	for r := 0; r < plat.NumRegisters(); r++ {
		if err := into.AddRegister(r); err != nil {
			diagnostics = append(diagnostics, err.Error())
		}
	}
	return diagnostics
}
