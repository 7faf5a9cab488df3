// Package listing derives filtered, paginated views over in-memory lists.
// Every function is pure: applying the same filter twice yields the same result.
package listing

import (
	"strings"
)

const (
	StatusAll       = "all"
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Record is anything a listing page can search, filter and facet.
type Record interface {
	SearchFields() []string
	StatusKey() string
	FacetValue(name string) string
}

type Filter struct {
	Search string
	Status string
	// Facets are exact-match filters such as category, dealer or region.
	Facets map[string]string
}

type Result[T any] struct {
	Items      []T
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Apply filters items by search text, then status, then facets.
func Apply[T Record](items []T, f Filter) []T {
	needle := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]T, 0, len(items))

	for _, item := range items {
		if needle != "" && !matchesSearch(item, needle) {
			continue
		}

		if isActive(f.Status) && item.StatusKey() != f.Status {
			continue
		}

		if !matchesFacets(item, f.Facets) {
			continue
		}

		out = append(out, item)
	}

	return out
}

// Paginate slices items for a 1-based page. Out-of-range pages come back empty.
func Paginate[T any](items []T, page, pageSize int) Result[T] {
	page, pageSize = Normalize(page, pageSize)

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize

	start := total
	if page <= totalPages {
		start = (page - 1) * pageSize
	}

	end := min(start+pageSize, total)

	return Result[T]{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Normalize clamps paging input to sane defaults.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}

	return page, pageSize
}

func matchesSearch(r Record, needle string) bool {
	for _, field := range r.SearchFields() {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}

	return false
}

func matchesFacets(r Record, facets map[string]string) bool {
	for name, want := range facets {
		if !isActive(want) {
			continue
		}

		if r.FacetValue(name) != want {
			return false
		}
	}

	return true
}

func isActive(v string) bool {
	return v != "" && v != StatusAll
}
