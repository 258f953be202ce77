package feed

import (
	"sort"
	"time"

	"backend-communityhub/internal/user"
)

// AllCategories is the category filter value meaning "no filter".
const AllCategories = "All"

type Filter struct {
	Search   string
	Category string
}

type CommentView struct {
	Text   string
	Author user.Profile
}

// Entry is a post joined with the profiles it references.
type Entry struct {
	ID        string
	Title     string
	Link      string
	Category  string
	Content   string
	Author    user.Profile
	Likes     int
	Dislikes  int
	Comments  []CommentView
	HasImage  bool
	HasPoster bool
	CreatedAt time.Time
}

// CategorizedFeed maps a category to its entries, newest first. Only
// categories with at least one entry are present.
type CategorizedFeed map[string][]Entry

// Categories returns the keys in order of first appearance in the
// newest-first feed, that is by each category's newest entry. Ties fall
// back to the category name.
func (f CategorizedFeed) Categories() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := f.newest(keys[i]), f.newest(keys[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return keys[i] < keys[j]
	})
	return keys
}

func (f CategorizedFeed) newest(category string) time.Time {
	var latest time.Time
	for _, e := range f[category] {
		if e.CreatedAt.After(latest) {
			latest = e.CreatedAt
		}
	}
	return latest
}

// Len counts entries across all categories.
func (f CategorizedFeed) Len() int {
	n := 0
	for _, entries := range f {
		n += len(entries)
	}
	return n
}
