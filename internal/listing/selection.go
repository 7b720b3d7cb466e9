package listing

// Selection tracks the set of checked row IDs on the current page.
// Selections do not survive page or search changes.
type Selection struct {
	ids map[string]bool
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Toggle flips the checked state of a single row.
func (s *Selection) Toggle(id string) {
	if s.ids[id] {
		delete(s.ids, id)
		return
	}
	s.ids[id] = true
}

// Selected reports whether a row is checked.
func (s *Selection) Selected(id string) bool { return s.ids[id] }

// Count returns the number of checked rows.
func (s *Selection) Count() int { return len(s.ids) }

// IDs returns the checked row IDs in no particular order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

// SelectAll checks every visible row when any are unchecked, and
// clears the selection when all of them are already checked.
func (s *Selection) SelectAll(visible []string) {
	if s.AllSelected(visible) {
		s.Clear()
		return
	}
	s.ids = make(map[string]bool, len(visible))
	for _, id := range visible {
		s.ids[id] = true
	}
}

// AllSelected reports whether every visible row is checked. An empty
// page never counts as fully selected.
func (s *Selection) AllSelected(visible []string) bool {
	if len(visible) == 0 || len(s.ids) != len(visible) {
		return false
	}
	for _, id := range visible {
		if !s.ids[id] {
			return false
		}
	}
	return true
}

// Clear drops every checked row.
func (s *Selection) Clear() {
	s.ids = make(map[string]bool)
}
