// Package logger implements a small ring-buffered log, central to the whole
// tracepoint subsystem the way the teacher's own logger package is central
// to the emulator: every component logs through it rather than writing to
// stderr directly, and a permission check at the call site decides whether a
// given entry is worth keeping at all.
package logger
