package session

import (
	"strconv"
	"strings"

	"github.com/jetsetilly/tracepointd/compile"
	"github.com/jetsetilly/tracepointd/config"
	"github.com/jetsetilly/tracepointd/protocol"
	"github.com/jetsetilly/tracepointd/store"
	"github.com/jetsetilly/tracepointd/symbol"
	"github.com/jetsetilly/tracepointd/terrs"
)

// Transport is the putpkt/getpkt pair the real debugger's remote target
// supplies. An external collaborator per §1.
type Transport interface {
	PutPkt(pkt string) error
	GetPkt() (string, error)
}

// FrameContext gives the session access to the debugger's own frame and
// register cache after a successful frame selection: re-reading registers,
// reselecting the current frame, and resolving a PC to symbolic context are
// all external collaborators (the symbol table and line-table lookup named
// out of scope in §1), modelled here as one small interface.
type FrameContext interface {
	// CurrentPC returns the PC of the currently selected frame, after the
	// caller has re-read registers and reselected the frame.
	CurrentPC() (uint64, error)

	// Resolve maps pc to a source line, enclosing function name and file.
	Resolve(pc uint64) (line int, fn string, file string)
}

// LineResolver resolves a line specifier to a PC range, an external
// collaborator standing in for line-table lookup (§1).
type LineResolver interface {
	ResolveLine(loc string) (start, end uint64, err error)
	NextLineWithCode(from uint64) (start, end uint64, err error)
	CurrentLineRange() (start, end uint64, err error)
}

// Session is the TraceSession: it drives every remote exchange through a
// ReplyReader and owns the replay cursor.
type Session struct {
	transport Transport
	reader    *protocol.ReplyReader
	cfg       config.Config
	cursor    Cursor
}

// New creates a Session bound to transport.
func New(transport Transport, cfg config.Config) *Session {
	return &Session{transport: transport, reader: &protocol.ReplyReader{}, cfg: cfg, cursor: newCursor()}
}

// Cursor returns the current replay cursor.
func (s *Session) Cursor() Cursor { return s.cursor }

// exchange sends pkt and drives the noisy-reply loop to completion,
// returning the terminal payload: "OK" or a packet not starting with O/R/E.
func (s *Session) exchange(pkt string) (string, error) {
	if err := s.transport.PutPkt(pkt); err != nil {
		return "", terrs.New(terrs.ProtocolError, "transport error sending %q: %v", pkt, err)
	}
	return s.reader.Read(s.transport)
}

// expectOK sends pkt and fails with ProtocolError unless the terminal reply
// is exactly "OK".
func (s *Session) expectOK(pkt string) error {
	reply, err := s.exchange(pkt)
	if err != nil {
		return err
	}
	if reply != "OK" {
		return terrs.New(terrs.ProtocolError, "unexpected reply %q to %q", reply, pkt)
	}
	return nil
}

// Start runs the §4.8 start sequence: QTinit, one QTDP per tracepoint in
// store order (compiled and serialised fresh each time), then QTStart. A
// failure at any point leaves the store and cursor unchanged, since QTStart
// is only sent once every QTDP has been individually acknowledged.
func (s *Session) Start(st *store.Store, tab symbol.Table, plat symbol.Platform) error {
	if err := s.expectOK(protocol.QTinit()); err != nil {
		return err
	}

	var failure error
	stepCounts := make(map[*store.Tracepoint]int)
	st.ForEach(func(tp *store.Tracepoint) {
		if failure != nil {
			return
		}

		res := compile.Compile(s.cfg, tab, plat, tp.Address, tp.Actions)
		stepCounts[tp] = res.StepCount

		hdr := protocol.Header{
			Number:    tp.Number,
			Address:   tp.Address,
			Enabled:   tp.Enabled,
			StepCount: res.StepCount,
			PassCount: tp.PassCount,
		}
		pkt, err := protocol.SerializeQTDP(s.cfg, hdr, res.Trap, res.Stepping)
		if err != nil {
			failure = err
			return
		}
		if err := s.expectOK(pkt); err != nil {
			failure = err
			return
		}
	})
	if failure != nil {
		return failure
	}

	if err := s.expectOK(protocol.QTStart()); err != nil {
		return err
	}
	for tp, n := range stepCounts {
		tp.StepCount = n
	}
	s.cursor = newCursor()
	return nil
}

// Stop sends QTStop.
func (s *Session) Stop() error {
	return s.expectOK(protocol.QTStop())
}

// Status sends qTStatus.
func (s *Session) Status() error {
	return s.expectOK(protocol.QTStatus())
}

// find sends pkt, parses the F/T/OK reply per §4.8, and updates the replay
// cursor on success. terminating marks a request that is explicitly meant
// to end replay (tfind none): only there is a reported frame of -1 treated
// as success rather than NotFound.
func (s *Session) find(pkt string, terminating bool, ctx FrameContext) error {
	reply, err := s.exchange(pkt)
	if err != nil {
		return err
	}

	frame, frameSet, tp, tpSet, err := parseFrameReply(reply)
	if err != nil {
		return err
	}
	if !frameSet {
		return terrs.New(terrs.ProtocolError, "frame reply %q missing F field", reply)
	}

	if frame == -1 {
		if !terminating {
			return terrs.New(terrs.NotFound, "tfind: no matching frame")
		}
		s.cursor = newCursor()
		return nil
	}

	c := s.cursor
	c.Frame = frame
	if tpSet {
		c.Tracepoint = tp
	}

	if ctx != nil {
		pc, err := ctx.CurrentPC()
		if err != nil {
			return err
		}
		line, fn, file := ctx.Resolve(pc)
		c.Line = line
		c.Func = fn
		c.File = file
	}

	s.cursor = c
	return nil
}

// FindNumber moves the replay cursor to frame n.
func (s *Session) FindNumber(n int64, ctx FrameContext) error {
	return s.find(protocol.QTFrameNumber(n), false, ctx)
}

// FindNone ends replay (tfind none).
func (s *Session) FindNone(ctx FrameContext) error {
	return s.find(protocol.QTFrameNumber(-1), true, ctx)
}

// FindPC moves the replay cursor to the next frame captured at pc.
func (s *Session) FindPC(pc uint64, ctx FrameContext) error {
	return s.find(protocol.QTFramePC(pc), false, ctx)
}

// FindTracepoint moves the replay cursor to the next frame captured by
// tracepoint n.
func (s *Session) FindTracepoint(n int, ctx FrameContext) error {
	return s.find(protocol.QTFrameTracepoint(n), false, ctx)
}

// FindRange moves the replay cursor to the next frame whose PC falls inside
// [start, end).
func (s *Session) FindRange(start, end uint64, ctx FrameContext) error {
	return s.find(protocol.QTFrameRange(start, end), false, ctx)
}

// FindOutside moves the replay cursor to the next frame whose PC falls
// outside [start, end).
func (s *Session) FindOutside(start, end uint64, ctx FrameContext) error {
	return s.find(protocol.QTFrameOutside(start, end), false, ctx)
}

// FindLine implements "tfind line <loc>" per §4.8: with loc empty, it asks
// for a frame outside the current PC's line range; with loc given, it
// resolves the line specifier and asks for a frame inside that range,
// walking forward to the next line with code when the specifier names a
// line with none.
func (s *Session) FindLine(loc string, lr LineResolver, ctx FrameContext) error {
	if loc == "" {
		start, end, err := lr.CurrentLineRange()
		if err != nil {
			return err
		}
		return s.FindOutside(start, end, ctx)
	}

	start, end, err := lr.ResolveLine(loc)
	if err != nil {
		return err
	}
	if end == start {
		start, end, err = lr.NextLineWithCode(start)
		if err != nil {
			return err
		}
	}
	return s.FindRange(start, end, ctx)
}

// parseFrameReply walks reply as an interleaving of F<hex>, T<hex> fields
// terminated by the literal "OK", per §4.8.
func parseFrameReply(reply string) (frame int64, frameSet bool, tp int, tpSet bool, err error) {
	i := 0
	for i < len(reply) {
		switch reply[i] {
		case 'O':
			if reply[i:] == "OK" {
				if !frameSet {
					return 0, false, 0, false, terrs.New(terrs.ProtocolError, "frame reply %q missing F field", reply)
				}
				return frame, frameSet, tp, tpSet, nil
			}
			return 0, false, 0, false, terrs.New(terrs.ProtocolError, "unrecognised frame reply field at %q", reply[i:])

		case 'F':
			j := i + 1
			for j < len(reply) && isHexDigit(reply[j]) {
				j++
			}
			n, perr := strconv.ParseUint(reply[i+1:j], 16, 64)
			if perr != nil {
				return 0, false, 0, false, terrs.New(terrs.ProtocolError, "malformed F field: %q", reply[i:j])
			}
			frame = int64(n)
			frameSet = true
			i = j

		case 'T':
			j := i + 1
			for j < len(reply) && isHexDigit(reply[j]) {
				j++
			}
			n, perr := strconv.ParseInt(reply[i+1:j], 16, 64)
			if perr != nil {
				return 0, false, 0, false, terrs.New(terrs.ProtocolError, "malformed T field: %q", reply[i:j])
			}
			tp = int(n)
			tpSet = true
			i = j

		default:
			return 0, false, 0, false, terrs.New(terrs.ProtocolError, "unrecognised frame reply field at %q", reply[i:])
		}
	}
	return 0, false, 0, false, terrs.New(terrs.ProtocolError, "frame reply %q missing terminating OK", reply)
}

func isHexDigit(b byte) bool {
	return strings.IndexByte("0123456789abcdefABCDEF", b) >= 0
}
