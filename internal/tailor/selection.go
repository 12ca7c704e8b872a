package tailor

import "github.com/spigell/resume-tailor/internal/experience"

// Selection is the set of matched experiences picked for generation.
// It is only ever filled with ids of the matches it was built for.
type Selection struct {
	ids map[string]struct{}
}

func newSelection() Selection {
	return Selection{ids: make(map[string]struct{})}
}

// strongSelection picks exactly the matches at or above StrongThreshold.
func strongSelection(matches []experience.Match) Selection {
	s := newSelection()
	for _, m := range matches {
		if m.Similarity >= StrongThreshold {
			s.ids[m.ID] = struct{}{}
		}
	}
	return s
}

func (s Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) toggle(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

// ordered returns the selected ids in the order of matches.
func (s Selection) ordered(matches []experience.Match) []string {
	ids := make([]string, 0, len(s.ids))
	for _, m := range matches {
		if s.Has(m.ID) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
