package catalog

// Catalog is the read-only, ordered set of categories and lessons.
// A Catalog is safe for concurrent use once constructed.
type Catalog struct {
	categories []Category
	total      int
}

// New validates categories and builds a Catalog from them. The order of
// categories and of lessons within each category is preserved.
func New(categories []Category) (*Catalog, error) {
	if err := validateCategories(categories); err != nil {
		return nil, err
	}
	c := &Catalog{categories: categories}
	for _, cat := range categories {
		c.total += len(cat.Lessons)
	}
	return c, nil
}

// Categories returns all categories in display order.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Category returns the category with the given ID.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// FirstLessonID returns the ID of the first lesson of a category.
func (c *Catalog) FirstLessonID(categoryID string) (string, bool) {
	cat, ok := c.Category(categoryID)
	if !ok || len(cat.Lessons) == 0 {
		return "", false
	}
	return cat.Lessons[0].ID, true
}

// TotalLessons returns the number of lessons across all categories.
func (c *Catalog) TotalLessons() int {
	return c.total
}

// AllLessons returns every lesson in catalog order, annotated with its
// owning category.
func (c *Catalog) AllLessons() []LessonRef {
	refs := make([]LessonRef, 0, c.total)
	for _, cat := range c.categories {
		for _, l := range cat.Lessons {
			refs = append(refs, LessonRef{Lesson: l, CategoryID: cat.ID, CategoryName: cat.Name})
		}
	}
	return refs
}

// FindLessonByID scans categories, then their lessons, for the lesson with
// the given ID.
func (c *Catalog) FindLessonByID(id string) (LessonRef, bool) {
	for _, cat := range c.categories {
		for _, l := range cat.Lessons {
			if l.ID == id {
				return LessonRef{Lesson: l, CategoryID: cat.ID, CategoryName: cat.Name}, true
			}
		}
	}
	return LessonRef{}, false
}

// Has reports whether a lesson with the given ID exists.
func (c *Catalog) Has(id string) bool {
	_, ok := c.FindLessonByID(id)
	return ok
}

// Neighbor returns the ID of the lesson offset positions away from lessonID
// within the same category. It reports false at either end of the category
// or when lessonID is unknown.
func (c *Catalog) Neighbor(lessonID string, offset int) (string, bool) {
	for _, cat := range c.categories {
		for i, l := range cat.Lessons {
			if l.ID != lessonID {
				continue
			}
			j := i + offset
			if j < 0 || j >= len(cat.Lessons) {
				return "", false
			}
			return cat.Lessons[j].ID, true
		}
	}
	return "", false
}
