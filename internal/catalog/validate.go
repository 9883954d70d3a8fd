package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// validateCategories performs the structural checks the JSON schema cannot
// express. Returns a combined error describing all problems found.
func validateCategories(categories []Category) error {
	if len(categories) == 0 {
		return errors.New("catalog has no categories")
	}

	var errs []string
	catIDs := make(map[string]bool, len(categories))
	lessonOwner := make(map[string]string)

	for _, cat := range categories {
		if cat.ID == "" {
			errs = append(errs, fmt.Sprintf("category %q has an empty ID", cat.Name))
		}
		if catIDs[cat.ID] {
			errs = append(errs, fmt.Sprintf("duplicate category ID: %q", cat.ID))
		}
		catIDs[cat.ID] = true

		if len(cat.Lessons) == 0 {
			errs = append(errs, fmt.Sprintf("category %q has no lessons", cat.ID))
		}

		for _, l := range cat.Lessons {
			if l.ID == "" {
				errs = append(errs, fmt.Sprintf("category %q has a lesson with an empty ID", cat.ID))
				continue
			}
			if owner, dup := lessonOwner[l.ID]; dup {
				errs = append(errs, fmt.Sprintf("duplicate lesson ID %q in categories %q and %q", l.ID, owner, cat.ID))
			}
			lessonOwner[l.ID] = cat.ID

			switch l.Meta.Difficulty {
			case Beginner, Intermediate, Advanced:
			default:
				errs = append(errs, fmt.Sprintf("lesson %q has unknown difficulty %q", l.ID, l.Meta.Difficulty))
			}

			if q := l.Content.Quiz; q != nil {
				if len(q.Options) < 2 {
					errs = append(errs, fmt.Sprintf("lesson %q quiz has %d options, want at least 2", l.ID, len(q.Options)))
				}
				correct := 0
				for _, o := range q.Options {
					if o.IsCorrect {
						correct++
					}
				}
				if correct != 1 {
					errs = append(errs, fmt.Sprintf("lesson %q quiz has %d correct options, want exactly 1", l.ID, correct))
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
