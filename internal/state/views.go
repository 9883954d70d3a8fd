package state

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/pywebdev/academy/internal/catalog"
)

// MinQueryLength is the shortest query that produces search results.
const MinQueryLength = 2

// SearchResult is a lesson matched by a search query.
type SearchResult struct {
	LessonID   string
	Title      string
	Category   string // category display name
	CategoryID string
}

// Search returns every lesson whose title or category name contains query,
// ignoring case, in catalog order. Queries shorter than MinQueryLength
// return nothing.
func Search(c *catalog.Catalog, query string) []SearchResult {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil
	}
	q := strings.ToLower(query)

	var results []SearchResult
	for _, cat := range c.Categories() {
		catMatch := strings.Contains(strings.ToLower(cat.Name), q)
		for _, l := range cat.Lessons {
			if catMatch || strings.Contains(strings.ToLower(l.Title), q) {
				results = append(results, SearchResult{
					LessonID:   l.ID,
					Title:      l.Title,
					Category:   cat.Name,
					CategoryID: cat.ID,
				})
			}
		}
	}
	return results
}

// ProgressData summarizes how much of the catalog is completed.
type ProgressData struct {
	Completed  int
	Total      int
	Percentage int
}

// Progress counts completed lessons that exist in the catalog against the
// catalog size. Stale IDs are ignored so the percentage never exceeds 100.
func Progress(c *catalog.Catalog, completed LessonSet) ProgressData {
	p := ProgressData{Total: c.TotalLessons()}
	for _, id := range completed.IDs() {
		if c.Has(id) {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percentage = int(math.Round(float64(p.Completed) / float64(p.Total) * 100))
	}
	return p
}
