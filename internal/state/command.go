package state

// Command is a request to change the selection state.
type Command interface {
	commandName() string
}

// SetCategory selects a category tab.
type SetCategory struct{ CategoryID string }

// SetLesson selects a lesson. The ID is not validated.
type SetLesson struct{ LessonID string }

// CompleteLesson marks a lesson completed.
type CompleteLesson struct{ LessonID string }

// SetSearchQuery replaces the search query verbatim.
type SetSearchQuery struct{ Query string }

// ToggleShortcuts shows or hides the shortcuts panel.
type ToggleShortcuts struct{}

// ResetProgress forgets all completed lessons.
type ResetProgress struct{}

func (SetCategory) commandName() string     { return "set_category" }
func (SetLesson) commandName() string       { return "set_lesson" }
func (CompleteLesson) commandName() string  { return "complete_lesson" }
func (SetSearchQuery) commandName() string  { return "set_search_query" }
func (ToggleShortcuts) commandName() string { return "toggle_shortcuts" }
func (ResetProgress) commandName() string   { return "reset_progress" }

// Name returns a stable identifier for cmd, used in logs.
func Name(cmd Command) string {
	return cmd.commandName()
}

// FirstLessonFinder resolves the first lesson of a category.
type FirstLessonFinder interface {
	FirstLessonID(categoryID string) (string, bool)
}

// Apply returns the state that results from applying cmd to s. It never
// fails: unknown categories leave the current lesson unchanged.
func Apply(lessons FirstLessonFinder, s State, cmd Command) State {
	switch c := cmd.(type) {
	case SetCategory:
		s.CurrentCategoryID = c.CategoryID
		if first, ok := lessons.FirstLessonID(c.CategoryID); ok {
			s.CurrentLessonID = first
		}
	case SetLesson:
		s.CurrentLessonID = c.LessonID
	case CompleteLesson:
		s.Completed = s.Completed.with(c.LessonID)
	case SetSearchQuery:
		s.SearchQuery = c.Query
	case ToggleShortcuts:
		s.ShowShortcuts = !s.ShowShortcuts
	case ResetProgress:
		s.Completed = NewLessonSet()
	}
	return s
}
