package nasdaq

import (
	"math"
	"sync/atomic"
)

// PageScheduler tracks, for one section, the lowest page identifier known to
// hold no data. Every page worker of the section shares one instance.
// Identifiers above the marker are never fetched.
type PageScheduler struct {
	lastValidPageID atomic.Int64
}

// NewPageScheduler returns a scheduler that considers every page live.
func NewPageScheduler() *PageScheduler {
	s := &PageScheduler{}
	s.lastValidPageID.Store(math.MaxInt64)
	return s
}

// LastValidPageID returns the current exhaustion marker.
func (s *PageScheduler) LastValidPageID() int64 {
	return s.lastValidPageID.Load()
}

// Exhausted reports whether id lies past the known end of the section.
func (s *PageScheduler) Exhausted(id int64) bool {
	return s.lastValidPageID.Load() < id
}

// MarkEmpty records that the page with the given identifier came back empty.
// The marker only moves down, so concurrent reports settle on the lowest one.
func (s *PageScheduler) MarkEmpty(id int64) {
	for {
		current := s.lastValidPageID.Load()
		if id >= current {
			return
		}
		if s.lastValidPageID.CompareAndSwap(current, id) {
			return
		}
	}
}
