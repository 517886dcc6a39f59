package session

// Cursor is the replay cursor described in §3: state naming the currently
// displayed captured frame. Its fields hold the values behind
// tpnum/trace_frame/tracepoint/trace_line/trace_func/trace_file; this package
// does not publish them to an expression evaluator, and callers read them
// through Session.Cursor.
type Cursor struct {
	Frame      int64
	Tracepoint int
	Line       int
	Func       string
	File       string
}

// newCursor returns the "not replaying" state: (-1, -1), line -1, empty
// name fields.
func newCursor() Cursor {
	return Cursor{Frame: -1, Tracepoint: -1, Line: -1}
}

// Replaying reports whether the cursor currently names a captured frame.
func (c Cursor) Replaying() bool {
	return c.Frame != -1
}
