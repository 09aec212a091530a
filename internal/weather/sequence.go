package weather

import (
	"time"

	"go.uber.org/atomic"
)

// sequencer hands out strictly increasing request numbers. They are seeded
// from the wall clock so that numbers keep increasing across restarts when a
// persistent store is used.
type sequencer struct {
	last *atomic.Uint64
	now  func() time.Time
}

func newSequencer(now func() time.Time) *sequencer {
	return &sequencer{last: atomic.NewUint64(0), now: now}
}

func (s *sequencer) Next() uint64 {
	for {
		prev := s.last.Load()
		next := uint64(s.now().UnixNano())
		if next <= prev {
			next = prev + 1
		}
		if s.last.CAS(prev, next) {
			return next
		}
	}
}
