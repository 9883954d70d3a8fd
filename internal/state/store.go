package state

import (
	"slices"

	"github.com/pywebdev/academy/internal/catalog"
)

// Store owns the live selection state for one running UI. It is not safe
// for concurrent use; all calls happen on the UI update loop.
type Store struct {
	catalog *catalog.Catalog
	state   State

	// completedRev increases whenever the completed set changes.
	completedRev int

	search struct {
		valid   bool
		query   string
		results []SearchResult
	}
	progress struct {
		valid bool
		rev   int
		data  ProgressData
	}
}

// NewStore creates a Store over c holding the initial state.
func NewStore(c *catalog.Catalog) *Store {
	if c == nil {
		panic("state: NewStore called with a nil catalog")
	}
	return &Store{catalog: c, state: Initial()}
}

func (s *Store) live() {
	if s == nil {
		panic("state: Store used outside of its lifetime (nil *Store)")
	}
}

// Catalog returns the catalog the store was built over.
func (s *Store) Catalog() *catalog.Catalog {
	s.live()
	return s.catalog
}

// State returns the current state.
func (s *Store) State() State {
	s.live()
	return s.state
}

// Dispatch applies cmds in order and returns the previous state.
func (s *Store) Dispatch(cmds ...Command) (prev State) {
	s.live()
	prev = s.state
	for _, cmd := range cmds {
		next := Apply(s.catalog, s.state, cmd)
		if next.Completed.Len() != s.state.Completed.Len() {
			s.completedRev++
		}
		s.state = next
	}
	return prev
}

// CurrentLesson resolves the current lesson against the catalog.
func (s *Store) CurrentLesson() (catalog.LessonRef, bool) {
	s.live()
	return s.catalog.FindLessonByID(s.state.CurrentLessonID)
}

// SearchResults returns Search for the current query, memoized on the
// query string. The returned slice is the caller's own copy.
func (s *Store) SearchResults() []SearchResult {
	s.live()
	if !s.search.valid || s.search.query != s.state.SearchQuery {
		s.search.query = s.state.SearchQuery
		s.search.results = Search(s.catalog, s.state.SearchQuery)
		s.search.valid = true
	}
	return slices.Clone(s.search.results)
}

// Progress returns Progress for the current completed set, memoized until
// the set changes.
func (s *Store) Progress() ProgressData {
	s.live()
	if !s.progress.valid || s.progress.rev != s.completedRev {
		s.progress.data = Progress(s.catalog, s.state.Completed)
		s.progress.rev = s.completedRev
		s.progress.valid = true
	}
	return s.progress.data
}
