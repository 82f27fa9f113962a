package buffer

import "fmt"

// BufStats holds access counters of buffer pool manager
type BufStats struct {
	// ReadPage and AllocatePage calls
	Accesses uint64
	// page reads from page files (buffer misses)
	DiskReads uint64
	// write backs of dirty frames
	DiskWrites uint64
}

func (s *BufStats) Clear() {
	s.Accesses = 0
	s.DiskReads = 0
	s.DiskWrites = 0
}

// HitRatio returns ratio of accesses which did not need disk read
func (s BufStats) HitRatio() float64 {
	if s.Accesses == 0 {
		return 0
	}
	hits := s.Accesses - s.DiskReads
	if s.DiskReads > s.Accesses {
		hits = 0
	}
	return float64(hits) / float64(s.Accesses)
}

func (s BufStats) String() string {
	return fmt.Sprintf("accesses:%d diskreads:%d diskwrites:%d hitratio:%.3f", s.Accesses, s.DiskReads, s.DiskWrites, s.HitRatio())
}
