// Package session implements the TraceSession component (§4.8): orchestrating
// start/stop/status/find against the remote target, owning the replay
// cursor, and persisting the tracepoint catalogue via save-tracepoints.
// The transport, symbol table, and line-table lookup remain external
// collaborators, represented here as small interfaces.
package session
