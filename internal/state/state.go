// Package state holds the learner's in-memory selection state and the pure
// functions that transition and derive from it.
package state

import "sort"

// Default selection at start-up.
const (
	DefaultCategoryID = "python"
	DefaultLessonID   = "core-concepts"
)

// LessonSet is an immutable set of lesson IDs.
type LessonSet struct {
	ids map[string]struct{}
}

// NewLessonSet builds a set from ids.
func NewLessonSet(ids ...string) LessonSet {
	s := LessonSet{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s LessonSet) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of IDs in the set.
func (s LessonSet) Len() int {
	return len(s.ids)
}

// IDs returns the members in sorted order.
func (s LessonSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// with returns a copy of s that also contains id. When id is already
// present s itself is returned.
func (s LessonSet) with(id string) LessonSet {
	if s.Has(id) {
		return s
	}
	next := LessonSet{ids: make(map[string]struct{}, len(s.ids)+1)}
	for k := range s.ids {
		next.ids[k] = struct{}{}
	}
	next.ids[id] = struct{}{}
	return next
}

// State is the selection state shared by the whole UI. Values are treated
// as immutable; transitions produce a new State.
type State struct {
	CurrentCategoryID string
	CurrentLessonID   string
	Completed         LessonSet
	SearchQuery       string
	ShowShortcuts     bool
}

// Initial returns the start-up state.
func Initial() State {
	return State{
		CurrentCategoryID: DefaultCategoryID,
		CurrentLessonID:   DefaultLessonID,
		Completed:         NewLessonSet(),
	}
}
