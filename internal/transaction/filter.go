package transaction

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
)

// Filter is the predicate applied when listing transactions. Every set field
// must match. Text fields are case-insensitive substring matches; Search must
// match at least one of category, status or user_id.
type Filter struct {
	Category  string
	Status    string
	UserID    string
	DateFrom  *time.Time
	DateTo    *time.Time
	MinAmount *float64
	MaxAmount *float64
	Search    string
}

const opParseFilter = "transaction.ParseFilter"

// ParseFilter builds a Filter from query parameters. Unknown keys are ignored
// and blank values count as absent. Malformed dates or amounts are rejected.
//
// Dates accept RFC 3339 or YYYY-MM-DD. A bare date is midnight UTC at the
// start of that day, so dateTo=2024-01-31 excludes records later on the 31st.
// Pass an RFC 3339 time such as 2024-01-31T23:59:59Z to include the whole day.
func ParseFilter(q url.Values) (Filter, error) {
	get := func(key string) string { return strings.TrimSpace(q.Get(key)) }

	f := Filter{
		Category: get("category"),
		Status:   get("status"),
		UserID:   get("user_id"),
		Search:   get("search"),
	}

	var err error

	if f.DateFrom, err = parseDateParam("dateFrom", get("dateFrom")); err != nil {
		return Filter{}, err
	}

	if f.DateTo, err = parseDateParam("dateTo", get("dateTo")); err != nil {
		return Filter{}, err
	}

	if f.MinAmount, err = parseAmountParam("minAmount", get("minAmount")); err != nil {
		return Filter{}, err
	}

	// "amount" is the older single-threshold form of minAmount.
	if f.MinAmount == nil {
		if f.MinAmount, err = parseAmountParam("amount", get("amount")); err != nil {
			return Filter{}, err
		}
	}

	if f.MaxAmount, err = parseAmountParam("maxAmount", get("maxAmount")); err != nil {
		return Filter{}, err
	}

	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return Filter{}, apperr.Validation(opParseFilter, "dateFrom must not be after dateTo")
	}

	if f.MinAmount != nil && f.MaxAmount != nil && *f.MinAmount > *f.MaxAmount {
		return Filter{}, apperr.Validation(opParseFilter, "minAmount must not be greater than maxAmount")
	}

	return f, nil
}

func parseDateParam(key, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return new(t.UTC()), nil
	}

	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return new(t), nil
	}

	return nil, apperr.Validation(opParseFilter,
		fmt.Sprintf("%s must be a date (YYYY-MM-DD) or an RFC 3339 timestamp", key))
}

func parseAmountParam(key, value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, apperr.Validation(opParseFilter, fmt.Sprintf("%s must be a number", key))
	}

	return new(v), nil
}

// IsEmpty reports whether the filter matches every transaction.
func (f Filter) IsEmpty() bool {
	return f == Filter{}
}

// Match reports whether tx satisfies the filter.
func (f Filter) Match(tx *Transaction) bool {
	if f.Category != "" && !containsFold(string(tx.Category), f.Category) {
		return false
	}

	if f.Status != "" && !containsFold(string(tx.Status), f.Status) {
		return false
	}

	if f.UserID != "" && !containsFold(tx.UserID, f.UserID) {
		return false
	}

	if f.DateFrom != nil && tx.Date.Before(*f.DateFrom) {
		return false
	}

	if f.DateTo != nil && tx.Date.After(*f.DateTo) {
		return false
	}

	if f.MinAmount != nil && tx.Amount < *f.MinAmount {
		return false
	}

	if f.MaxAmount != nil && tx.Amount > *f.MaxAmount {
		return false
	}

	if f.Search != "" &&
		!containsFold(string(tx.Category), f.Search) &&
		!containsFold(string(tx.Status), f.Search) &&
		!containsFold(tx.UserID, f.Search) {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
