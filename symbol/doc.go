// Package symbol implements the SymbolCollector component (§4.3): mapping a
// target symbol to one or more memrange/register entries, dispatched on the
// symbol's storage class.
//
// The symbol table, lexical-block tree and per-platform register metadata
// are explicitly out of scope per §1 ("deliberately out of scope: the
// symbol table ... assumed to exist as services the core calls"). Table and
// Platform are the thin interfaces this package calls into — the real
// implementations live in the surrounding debugger. This mirrors how the
// teacher's debugger/traces.go and debugger/watches.go call into
// dbgmem.AddressInfo and the symbols package without reimplementing either.
package symbol
