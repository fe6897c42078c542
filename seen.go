package flexquery

// Seen is the set of transaction IDs already represented by a transaction
// built from an open position.
//
// It is filled by the PositionExtractor and only read afterwards.
type Seen struct {
	ids map[string]struct{}
}

// NewSeen returns an empty set.
func NewSeen() *Seen { return &Seen{ids: make(map[string]struct{})} }

// Add marks a transaction ID as already accounted for. Empty IDs are ignored.
func (s *Seen) Add(id string) {
	if id == "" {
		return
	}
	s.ids[id] = struct{}{}
}

// Covers reports whether the transaction ID is already accounted for.
func (s *Seen) Covers(id string) bool {
	if s == nil || id == "" {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s *Seen) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Covered is the read only view of Seen used while reading the statement of funds.
type Covered interface {
	Covers(id string) bool
}
