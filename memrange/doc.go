// Package memrange implements the MemrangeSet component (§4.1): a register
// bitmap plus a sorted, coalesced vector of memory ranges to collect.
//
// The slice-management idiom — a preallocated, geometrically-grown backing
// array — is grounded on the teacher's debugger/breakpoints.go and
// debugger/traces.go, which manage their own small catalogues (breakers,
// tracers) the same way. A Set never removes single entries; Clear truncates
// the slice and keeps its allocation.
package memrange
