package protocol

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/tracepointd/config"
	"github.com/jetsetilly/tracepointd/memrange"
	"github.com/jetsetilly/tracepointd/terrs"
)

// Header carries the per-tracepoint fields that open a QTDP packet.
type Header struct {
	Number    int
	Address   uint64
	Enabled   bool
	StepCount int
	PassCount int
}

// SerializeQTDP renders hdr and its two finalised CollectionLists (trap,
// stepping) as a single QTDP packet per §4.5. trap and stepping must already
// have had Finalize called. Fields are colon-delimited throughout, matching
// the colon-delimited header GDB's own QTDP uses. Returns TooComplex, naming
// hdr.Number, if the assembled packet would exceed cfg.TransportPacketLimit.
func SerializeQTDP(cfg config.Config, hdr Header, trap *memrange.Set, stepping *memrange.Set) (string, error) {
	ena := "D"
	if hdr.Enabled {
		ena = "E"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "QTDP:%x:%x:%s:%x:%x", hdr.Number, hdr.Address, ena, hdr.StepCount, hdr.PassCount)
	writeProgram(&b, trap)

	if !stepping.IsEmpty() {
		b.WriteString(":S")
		writeProgram(&b, stepping)
	}

	if b.Len() > cfg.TransportPacketLimit {
		return "", terrs.New(terrs.TooComplex, "tracepoint %d: assembled packet of %d bytes exceeds the transport limit of %d", hdr.Number, b.Len(), cfg.TransportPacketLimit)
	}

	return b.String(), nil
}

// writeProgram appends one CollectionList's R and M fields, each preceded by
// a colon, in canonical (post-finalise) order. The register field is
// omitted entirely when the bitmap is empty, per §4.5.
func writeProgram(b *strings.Builder, set *memrange.Set) {
	if hex := set.Registers().Hex(); hex != "" {
		b.WriteString(":R")
		b.WriteString(hex)
	}
	for _, r := range set.Ranges() {
		b.WriteString(":")
		b.WriteString(r.String())
	}
}

// QTinit renders the packet that clears the target's tracepoint table
// before a fresh definition sequence begins.
func QTinit() string { return "QTinit" }

// QTStart renders the packet that arms every previously-defined tracepoint.
func QTStart() string { return "QTStart" }

// QTStop renders the packet that halts tracing.
func QTStop() string { return "QTStop" }

// QTStatus renders the trace-status query packet.
func QTStatus() string { return "qTStatus" }

// QTFrameNumber renders a by-number frame-selection request.
func QTFrameNumber(n int64) string {
	return fmt.Sprintf("QTFrame:%x", uint64(n))
}

// QTFramePC renders a by-PC frame-selection request.
func QTFramePC(pc uint64) string {
	return fmt.Sprintf("QTFrame:pc:%x", pc)
}

// QTFrameTracepoint renders a by-tracepoint-number frame-selection request.
func QTFrameTracepoint(n int) string {
	return fmt.Sprintf("QTFrame:tdp:%x", n)
}

// QTFrameRange renders a request for the next frame whose PC falls inside
// [start, end).
func QTFrameRange(start, end uint64) string {
	return fmt.Sprintf("QTFrame:range:%x:%x", start, end)
}

// QTFrameOutside renders a request for the next frame whose PC falls
// outside [start, end).
func QTFrameOutside(start, end uint64) string {
	return fmt.Sprintf("QTFrame:outside:%x:%x", start, end)
}
