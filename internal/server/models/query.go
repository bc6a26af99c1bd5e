package models

// Default page shape when the request does not specify one.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 500
)

// ListQuery describes one listing request after HTTP parameter parsing.
// String timestamps use the canonical ISO format and compare lexically.
type ListQuery struct {
	Page            int
	PageSize        int
	SortBy          string // "name" or "date"
	SortOrder       string // "asc" or "desc"
	IncludeArchived bool
	UpdatedAfter    string // strictly-greater filter
	DateFrom        string // records only, inclusive
	DateTo          string // records only, inclusive
}

// Normalize clamps pagination to sane bounds and fills sort defaults.
func (q *ListQuery) Normalize(defaultSortBy string) {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	if q.SortBy == "" {
		q.SortBy = defaultSortBy
	}
	if q.SortOrder != "desc" {
		q.SortOrder = "asc"
	}
}

// Offset returns the row offset of the requested page.
func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
