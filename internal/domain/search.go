package domain

import "math"

const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// TalentSearchFilter carries the recruiter search parameters. Nil pointers
// and empty values mean "no filter".
type TalentSearchFilter struct {
	Skills            []string
	Country           string
	YearsOfExperience *int
	Availability      string
	IsOpenToWork      *bool
	Keyword           string

	Page  int
	Limit int
}

// Normalize applies paging defaults and caps.
func (f *TalentSearchFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultSearchLimit
	}
	if f.Limit > MaxSearchLimit {
		f.Limit = MaxSearchLimit
	}
}

func (f TalentSearchFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

type TalentSearchResult struct {
	Talents    []TalentProfile `json:"talents"`
	Pagination Pagination      `json:"pagination"`
}
