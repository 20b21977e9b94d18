package scraper

// DescendingSource walks the ID space downward from a starting point in
// fixed-size windows. The floor is inclusive: it is the lowest ID that will
// be probed. This is the workaround for the site exposing no reliable index;
// any other discovery strategy can replace it behind IDSource.
type DescendingSource struct {
	next   CandidateID
	floor  CandidateID
	window int
}

// NewDescendingSource builds a source scanning from start down to floor.
func NewDescendingSource(start, floor CandidateID, window int) *DescendingSource {
	if window <= 0 {
		window = 50
	}
	if floor < 0 {
		floor = 0
	}
	return &DescendingSource{next: start, floor: floor, window: window}
}

// Next returns the next descending window, or an empty slice once the floor
// has been passed.
func (s *DescendingSource) Next() []CandidateID {
	if s.next < s.floor {
		return nil
	}
	ids := make([]CandidateID, 0, s.window)
	for i := 0; i < s.window && s.next >= s.floor; i++ {
		ids = append(ids, s.next)
		s.next--
	}
	return ids
}

// NextCandidate reports the highest ID not yet handed out.
func (s *DescendingSource) NextCandidate() CandidateID { return s.next }
