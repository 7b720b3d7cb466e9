// Package core contains the client-side business logic of taskctl:
// configuration, the permission map and selection rules, form validation,
// and the one-time-code input model.
package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// AllPermissionName is the key of the sentinel entry in the permission map.
// Holding the sentinel code is defined to be equivalent to holding every
// other code simultaneously.
const AllPermissionName = "all"

// PermissionMap is the externally configured name→code mapping, loaded once
// at startup. Codes are opaque integers chosen by the backend deployment.
type PermissionMap struct {
	codes map[string]int
	names map[int]string
	order []string
}

// ParsePermissionMap parses the "name:code,name:code" form used by the
// permissions config key. Duplicate names or codes are rejected.
func ParsePermissionMap(raw string) (PermissionMap, error) {
	pm := PermissionMap{
		codes: make(map[string]int),
		names: make(map[int]string),
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return pm, nil
	}
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		name, value, ok := strings.Cut(item, ":")
		if !ok {
			return PermissionMap{}, fmt.Errorf("parsing permissions: entry %q is not name:code", item)
		}
		name = strings.TrimSpace(name)
		code, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return PermissionMap{}, fmt.Errorf("parsing permissions: entry %q: %w", item, err)
		}
		if _, exists := pm.codes[name]; exists {
			return PermissionMap{}, fmt.Errorf("parsing permissions: duplicate name %q", name)
		}
		if _, exists := pm.names[code]; exists {
			return PermissionMap{}, fmt.Errorf("parsing permissions: duplicate code %d", code)
		}
		pm.codes[name] = code
		pm.names[code] = name
		pm.order = append(pm.order, name)
	}
	return pm, nil
}

// Len returns the number of entries, including the sentinel if present.
func (pm PermissionMap) Len() int { return len(pm.order) }

// Names returns the permission names in configuration order.
func (pm PermissionMap) Names() []string {
	out := make([]string, len(pm.order))
	copy(out, pm.order)
	return out
}

// Codes returns every code in configuration order, including the sentinel.
func (pm PermissionMap) Codes() []int {
	out := make([]int, 0, len(pm.order))
	for _, name := range pm.order {
		out = append(out, pm.codes[name])
	}
	return out
}

// CodeFor looks up the code for a permission name.
func (pm PermissionMap) CodeFor(name string) (int, bool) {
	code, ok := pm.codes[name]
	return code, ok
}

// NameFor looks up the name for a permission code.
func (pm PermissionMap) NameFor(code int) (string, bool) {
	name, ok := pm.names[code]
	return name, ok
}

// AllCode returns the sentinel code. ok is false when the map has no "all"
// entry, in which case sentinel synchronization is disabled.
func (pm PermissionMap) AllCode() (int, bool) {
	code, ok := pm.codes[AllPermissionName]
	return code, ok
}

// IndividualCodes returns every non-sentinel code in configuration order.
func (pm PermissionMap) IndividualCodes() []int {
	out := make([]int, 0, len(pm.order))
	for _, name := range pm.order {
		if name == AllPermissionName {
			continue
		}
		out = append(out, pm.codes[name])
	}
	return out
}

// FormatPermissionName converts a key like "user_management" to
// "User Management" for display.
func FormatPermissionName(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// FormattedNameFor returns the display name for a code, or "" when the code
// is not in the map.
func (pm PermissionMap) FormattedNameFor(code int) string {
	name, ok := pm.names[code]
	if !ok {
		return ""
	}
	return FormatPermissionName(name)
}

// PermissionSelection is the set of codes picked in the role editor. The
// sentinel is never an independent bit: every mutation resynchronizes it so
// that it is selected exactly when every individual code is selected.
type PermissionSelection struct {
	pm       PermissionMap
	selected map[int]bool
}

// NewPermissionSelection builds a selection over pm seeded with initial
// codes. The sentinel is recomputed from the individual codes, so a stored
// selection that drifted out of sync is repaired on load.
func NewPermissionSelection(pm PermissionMap, initial []int) *PermissionSelection {
	s := &PermissionSelection{pm: pm, selected: make(map[int]bool)}
	for _, code := range initial {
		if _, ok := pm.NameFor(code); ok {
			s.selected[code] = true
		}
	}
	s.syncAll()
	return s
}

// Toggle flips the membership of code.
//
// Toggling the sentinel clears the whole selection when it was selected, and
// selects every code (individuals plus sentinel) when it was not. Toggling an
// individual code flips it normally and then recomputes the sentinel.
func (s *PermissionSelection) Toggle(code int) {
	if _, ok := s.pm.NameFor(code); !ok {
		return
	}
	if all, ok := s.pm.AllCode(); ok && code == all {
		if s.selected[all] {
			s.selected = make(map[int]bool)
		} else {
			for _, c := range s.pm.Codes() {
				s.selected[c] = true
			}
		}
		return
	}
	if s.selected[code] {
		delete(s.selected, code)
	} else {
		s.selected[code] = true
	}
	s.syncAll()
}

// syncAll makes sentinel membership a pure function of the individual codes.
func (s *PermissionSelection) syncAll() {
	all, ok := s.pm.AllCode()
	if !ok {
		return
	}
	if s.allIndividualsSelected() {
		s.selected[all] = true
	} else {
		delete(s.selected, all)
	}
}

func (s *PermissionSelection) allIndividualsSelected() bool {
	individuals := s.pm.IndividualCodes()
	if len(individuals) == 0 {
		return false
	}
	for _, c := range individuals {
		if !s.selected[c] {
			return false
		}
	}
	return true
}

// Has reports whether code is selected.
func (s *PermissionSelection) Has(code int) bool { return s.selected[code] }

// Empty reports whether nothing is selected.
func (s *PermissionSelection) Empty() bool { return len(s.selected) == 0 }

// AllSelected reports whether the sentinel is (derivably) selected.
func (s *PermissionSelection) AllSelected() bool {
	all, ok := s.pm.AllCode()
	return ok && s.selected[all]
}

// Codes returns the selected codes in ascending order, suitable for the
// role create/update payload.
func (s *PermissionSelection) Codes() []int {
	out := make([]int, 0, len(s.selected))
	for c := range s.selected {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// HasPermission reports whether codes grants the capability identified by
// code, honoring the sentinel: holding it grants everything in the map.
func (pm PermissionMap) HasPermission(codes []int, code int) bool {
	all, hasAll := pm.AllCode()
	for _, c := range codes {
		if c == code {
			return true
		}
		if hasAll && c == all {
			return true
		}
	}
	return false
}
