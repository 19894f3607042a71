package transaction_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

func TestParsePage(t *testing.T) {
	type testCase struct {
		name  string
		query url.Values
		want  transaction.Page
	}

	tests := []testCase{
		{
			name:  "Defaults",
			query: url.Values{},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: 1, Limit: 10},
		},
		{
			name:  "Explicit",
			query: url.Values{"sortBy": {"amount"}, "sortOrder": {"asc"}, "page": {"3"}, "limit": {"25"}},
			want:  transaction.Page{SortBy: transaction.SortByAmount, Order: transaction.SortAsc, Number: 3, Limit: 25},
		},
		{
			name:  "UnknownSortFieldFallsBack",
			query: url.Values{"sortBy": {"password"}},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: 1, Limit: 10},
		},
		{
			name:  "UnknownOrderIsDesc",
			query: url.Values{"sortOrder": {"up"}},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: 1, Limit: 10},
		},
		{
			name:  "ClampsBelowOne",
			query: url.Values{"page": {"0"}, "limit": {"-5"}},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: 1, Limit: 1},
		},
		{
			name:  "NonNumericUsesDefaults",
			query: url.Values{"page": {"two"}, "limit": {"ten"}},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: 1, Limit: 10},
		},
		{
			name:  "CapsLimit",
			query: url.Values{"limit": {"5000"}},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: 1, Limit: transaction.MaxLimit},
		},
		{
			name:  "CapsPage",
			query: url.Values{"page": {"922337203685477580"}, "limit": {"100"}},
			want:  transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc, Number: transaction.MaxPage, Limit: transaction.MaxLimit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, transaction.ParsePage(tt.query))
		})
	}
}

func TestPage_Window(t *testing.T) {
	p := transaction.Page{Number: 3, Limit: 20}

	assert.Equal(t, 40, p.Skip())
	assert.Equal(t, 20, p.Take())
}

func TestPage_SkipNeverNegative(t *testing.T) {
	for _, raw := range []string{"922337203685477580", "9223372036854775807", "92233720368547758"} {
		t.Run(raw, func(t *testing.T) {
			p := transaction.ParsePage(url.Values{"page": {raw}, "limit": {"100"}})
			assert.GreaterOrEqual(t, p.Skip(), 0)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, transaction.TotalPages(0, 10))
	assert.Equal(t, 1, transaction.TotalPages(10, 10))
	assert.Equal(t, 2, transaction.TotalPages(11, 10))
	assert.Equal(t, 3, transaction.TotalPages(3, 1))
}
