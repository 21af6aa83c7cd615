// Package catalog derives the visible event collection: filtering, sorting,
// category listing, featured rotation and a refreshable cache.
package catalog

import (
	"sort"
	"strings"

	"collegeevents/internal/domain"
)

// Sort options accepted by SortEvents.
const (
	SortDateDesc  = "dateDesc"
	SortDateAsc   = "dateAsc"
	SortTitleAsc  = "titleAsc"
	SortTitleDesc = "titleDesc"
)

// DefaultSort is the listing order when none is requested.
const DefaultSort = SortDateDesc

// Query is a search over the collection. Filtering always runs before sorting.
type Query struct {
	Search   string
	Category string
	Sort     string
}

// FilterEvents keeps events whose category matches (or category is "All") and whose title,
// description or organizer contains search, case-insensitively. Input order is preserved.
func FilterEvents(events []*domain.Event, search, category string) []*domain.Event {
	needle := strings.ToLower(search)
	out := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if category != domain.CategoryAll && string(e.Category) != category {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(e.Title), needle) &&
			!strings.Contains(strings.ToLower(e.Description), needle) &&
			!strings.Contains(strings.ToLower(e.Organizer), needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SortEvents returns a sorted copy of events. Unknown options keep the input order.
func SortEvents(events []*domain.Event, option string) []*domain.Event {
	sorted := make([]*domain.Event, len(events))
	copy(sorted, events)

	var less func(a, b *domain.Event) bool
	switch option {
	case SortDateDesc:
		less = func(a, b *domain.Event) bool { return a.Date.After(b.Date) }
	case SortDateAsc:
		less = func(a, b *domain.Event) bool { return a.Date.Before(b.Date) }
	case SortTitleAsc:
		less = func(a, b *domain.Event) bool { return a.Title < b.Title }
	case SortTitleDesc:
		less = func(a, b *domain.Event) bool { return a.Title > b.Title }
	default:
		return sorted
	}
	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}

// Apply filters and then sorts. An empty category means "All".
func Apply(events []*domain.Event, q Query) []*domain.Event {
	category := q.Category
	if category == "" {
		category = domain.CategoryAll
	}
	return SortEvents(FilterEvents(events, q.Search, category), q.Sort)
}

// Categories returns "All" followed by each distinct category in first-seen order.
func Categories(events []*domain.Event) []string {
	out := []string{domain.CategoryAll}
	seen := make(map[domain.Category]struct{})
	for _, e := range events {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, string(e.Category))
	}
	return out
}

// Featured returns the featured events in input order.
func Featured(events []*domain.Event) []*domain.Event {
	out := make([]*domain.Event, 0)
	for _, e := range events {
		if e.Featured {
			out = append(out, e)
		}
	}
	return out
}
