package memrange

import (
	"sort"

	"github.com/jetsetilly/tracepointd/config"
	"github.com/jetsetilly/tracepointd/terrs"
)

// Set accumulates registers and memory ranges for one trap or stepping
// program and, on Finalize, produces the canonical (sorted, coalesced)
// CollectionList described in §3/§4.1.
type Set struct {
	cfg config.Config

	regs   RegisterBitmap
	ranges []Memrange

	finalized bool
}

// New creates an empty Set. Per §5, the backing slice is sized once (to
// cfg.InitialMemrangeCapacity) and doubled on overflow — it is never shrunk
// during the life of the Set.
func New(cfg config.Config) *Set {
	s := &Set{cfg: cfg}
	s.ranges = make([]Memrange, 0, cfg.InitialMemrangeCapacity)
	return s
}

// AddRegister marks register n for collection. Fails when n exceeds the
// bitmap width.
func (s *Set) AddRegister(n int) error {
	if n < 0 || n >= s.cfg.RegisterBitmapBits {
		return terrs.New(terrs.InvalidArgument, "register number %d exceeds collection bitmap width", n)
	}
	s.regs.set(n)
	s.finalized = false
	return nil
}

// AddMemrange adds a collection descriptor. typ 0 means base is an absolute
// address; any other typ names a base register (and implicitly marks that
// register for collection, per §4.1). length must be positive.
func (s *Set) AddMemrange(typ int, base int64, length int64) error {
	if length <= 0 {
		return terrs.New(terrs.InvalidArgument, "memrange length must be positive, got %d", length)
	}

	if typ != 0 {
		if err := s.AddRegister(typ); err != nil {
			return err
		}
	}

	if len(s.ranges) == cap(s.ranges) {
		grown := make([]Memrange, len(s.ranges), cap(s.ranges)*2)
		copy(grown, s.ranges)
		s.ranges = grown
	}

	s.ranges = append(s.ranges, Memrange{Type: typ, Start: base, End: base + length})
	s.finalized = false
	return nil
}

// Clear discards every register and memrange but keeps the backing
// allocation, per §5's "never reclaimed during a session" policy.
func (s *Set) Clear() {
	s.regs = RegisterBitmap{}
	s.ranges = s.ranges[:0]
	s.finalized = false
}

// IsEmpty reports whether the set has no registers and no memranges.
func (s *Set) IsEmpty() bool {
	return s.regs.IsEmpty() && len(s.ranges) == 0
}

// Registers returns the accumulated register bitmap.
func (s *Set) Registers() RegisterBitmap {
	return s.regs
}

// Ranges returns the accumulated memranges, in canonical order once
// Finalize has run.
func (s *Set) Ranges() []Memrange {
	return s.ranges
}

// less implements the §4.1 ordering: primary key type ascending, secondary
// key start ascending — compared as unsigned when type is 0 (absolute
// addresses) and signed when type is nonzero (register-relative offsets).
func less(a, b Memrange) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Type == 0 {
		return uint64(a.Start) < uint64(b.Start)
	}
	return a.Start < b.Start
}

// Finalize sorts the accumulated memranges per §4.1 and coalesces adjacent
// same-type entries whose gap is strictly within MaxRegisterVirtualSize.
// Idempotent: calling it twice in a row is a no-op the second time.
//
// Note on the boundary: a gap of exactly MaxRegisterVirtualSize is NOT
// coalesced (see S1 in the specification's worked examples, where a gap of
// exactly the threshold is left as two entries). The merge rule is therefore
// "gap < threshold", not "gap <= threshold" despite the prose description —
// the worked example is taken as authoritative over the looser wording.
func (s *Set) Finalize() {
	if s.finalized {
		return
	}

	sort.SliceStable(s.ranges, func(i, j int) bool {
		return less(s.ranges[i], s.ranges[j])
	})

	coalesced := s.ranges[:0:0]
	for _, r := range s.ranges {
		if n := len(coalesced); n > 0 {
			prev := &coalesced[n-1]
			if prev.Type == r.Type && r.Start-prev.End < int64(s.cfg.MaxRegisterVirtualSize) {
				if r.End > prev.End {
					prev.End = r.End
				}
				continue
			}
		}
		coalesced = append(coalesced, r)
	}
	s.ranges = coalesced

	s.finalized = true
}
