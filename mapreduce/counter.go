package mapreduce

import (
	"fmt"
	"sync/atomic"
)

// Stats counts what a run did. Pass one with WithStats to observe a run.
type Stats struct {
	MapIn, MapOut       atomic.Uint64
	ReduceIn, ReduceOut atomic.Uint64

	// Dropped counts pairs emitted after their map call returned.
	Dropped      atomic.Uint64
	GetterMisuse atomic.Uint64
}

func (s *Stats) String() string {
	mi := s.MapIn.Load()
	mo := s.MapOut.Load()
	ri := s.ReduceIn.Load()
	ro := s.ReduceOut.Load()
	return fmt.Sprintf("MapIn: %d, MapOut: %d, ReduceIn: %d, ReduceOut: %d, Dropped: %d, GetterMisuse: %d",
		mi, mo, ri, ro, s.Dropped.Load(), s.GetterMisuse.Load())
}
