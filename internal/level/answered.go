package level

// AnsweredSet holds the ids of questions answered within one level. Ids are only ever added.
type AnsweredSet struct {
	ids   map[string]struct{}
	order []string
}

// NewAnsweredSet builds a set from any number of id lists, keeping first-seen order.
func NewAnsweredSet(lists ...[]string) *AnsweredSet {
	s := &AnsweredSet{ids: make(map[string]struct{})}
	for _, list := range lists {
		for _, id := range list {
			s.Add(id)
		}
	}
	return s
}

// Add records id and reports whether it was new.
func (s *AnsweredSet) Add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

func (s *AnsweredSet) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.ids[id]
	return ok
}

func (s *AnsweredSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns a copy of the ids in insertion order.
func (s *AnsweredSet) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
