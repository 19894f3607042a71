package transaction

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// SortField is a transaction field listings can be ordered by.
type SortField string

const (
	SortByDate     SortField = "date"
	SortByAmount   SortField = "amount"
	SortByCategory SortField = "category"
	SortByStatus   SortField = "status"
	SortByUserID   SortField = "user_id"
)

// SortFields is the allow-list of sortable fields.
var SortFields = []SortField{SortByDate, SortByAmount, SortByCategory, SortByStatus, SortByUserID}

// SortOrder is the direction of a listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit within int for every valid limit.
	MaxPage = math.MaxInt / MaxLimit
)

// Page selects an ordered window of a filtered listing. Number is 1-based.
type Page struct {
	SortBy SortField
	Order  SortOrder
	Number int
	Limit  int
}

// DefaultPage is the first page of ten, newest first.
func DefaultPage() Page {
	return Page{SortBy: SortByDate, Order: SortDesc, Number: 1, Limit: DefaultLimit}
}

// ParsePage reads sortBy, sortOrder, page and limit. It never fails: unknown
// sort fields fall back to date, non-numeric values to their defaults and
// out-of-range values are clamped.
func ParsePage(q url.Values) Page {
	p := DefaultPage()

	if v := strings.TrimSpace(q.Get("sortBy")); v != "" {
		p.SortBy = SortField(v)
	}

	if strings.EqualFold(strings.TrimSpace(q.Get("sortOrder")), string(SortAsc)) {
		p.Order = SortAsc
	}

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("page"))); err == nil {
		p.Number = n
	}

	if n, err := strconv.Atoi(strings.TrimSpace(q.Get("limit"))); err == nil {
		p.Limit = n
	}

	return p.Normalize()
}

// Normalize clamps the page into its valid range.
func (p Page) Normalize() Page {
	if !validSortField(p.SortBy) {
		p.SortBy = SortByDate
	}

	if p.Order != SortAsc {
		p.Order = SortDesc
	}

	p.Number = min(max(p.Number, 1), MaxPage)
	p.Limit = min(max(p.Limit, 1), MaxLimit)

	return p
}

// Skip is the number of records before the window.
func (p Page) Skip() int {
	return (p.Number - 1) * p.Limit
}

// Take is the size of the window.
func (p Page) Take() int {
	return p.Limit
}

// TotalPages is ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}

	return int((total + int64(limit) - 1) / int64(limit))
}

func validSortField(f SortField) bool {
	for _, s := range SortFields {
		if s == f {
			return true
		}
	}

	return false
}
