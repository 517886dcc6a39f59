// Package store implements the TracepointStore component (§4.6): the
// numbered catalogue of tracepoint definitions, their lifecycle, and lookup
// by number or convenience-variable reference. Grounded on the teacher's
// debugger/breakpoints.go and debugger/traces.go catalogues, generalised
// from a single condition list to a numbered, enable/disable/delete
// catalogue with a UI hook.
package store
