package aggregate

import (
	"sort"
	"strings"

	"github.com/andeanbio/biomon/pkg/api"
)

// Sort keys accepted by FilterAndSort.
const (
	SortRecent  = "recent"
	SortOldest  = "oldest"
	SortPopular = "popular"
)

// SpeciesAll is the species-filter sentinel that passes every post.
const SpeciesAll = "all"

// Filter carries the post-list view parameters. The zero value passes all
// posts unsorted except for the default recent ordering applied by callers
// that set Sort explicitly.
type Filter struct {
	Query   string // case-insensitive substring over content, author name, species
	Species string // exact scientific name, or SpeciesAll / empty for no filter
	Sort    string // SortRecent, SortOldest or SortPopular
}

// FilterAndSort returns a new slice holding the posts that pass the filter,
// ordered by the requested key. Input order is preserved for equal sort keys
// and the input slice is never touched.
func FilterAndSort(posts []api.Post, f Filter) []api.Post {
	filtered := make([]api.Post, 0, len(posts))
	query := strings.ToLower(f.Query)
	for _, p := range posts {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Content), query) &&
			!strings.Contains(strings.ToLower(p.UserName), query) &&
			!strings.Contains(strings.ToLower(p.Species), query) {
			continue
		}
		if f.Species != "" && f.Species != SpeciesAll && p.Species != f.Species {
			continue
		}
		filtered = append(filtered, p)
	}

	switch f.Sort {
	case SortRecent:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	case SortOldest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		})
	case SortPopular:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Likes > filtered[j].Likes
		})
	}

	return filtered
}

// Paginate returns the 1-based page of size perPage. Out-of-range pages and
// non-positive sizes return an empty slice.
func Paginate(posts []api.Post, page, perPage int) []api.Post {
	if page < 1 || perPage < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(posts) {
		return nil
	}
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	out := make([]api.Post, end-start)
	copy(out, posts[start:end])
	return out
}
