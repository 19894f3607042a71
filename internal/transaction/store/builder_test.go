package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

func TestBuildWhere(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		name      string
		filter    transaction.Filter
		wantWhere string
		wantArgs  []any
	}

	tests := []testCase{
		{
			name:   "Empty",
			filter: transaction.Filter{},
		},
		{
			name:      "EscapesWildcards",
			filter:    transaction.Filter{UserID: `50%_off\`},
			wantWhere: " WHERE user_id ILIKE $1",
			wantArgs:  []any{`%50\%\_off\\%`},
		},
		{
			name: "Conjunction",
			filter: transaction.Filter{
				Category:  "exp",
				DateFrom:  &from,
				MinAmount: new(10.0),
				MaxAmount: new(20.0),
			},
			wantWhere: " WHERE category ILIKE $1 AND date >= $2 AND amount >= $3 AND amount <= $4",
			wantArgs:  []any{"%exp%", from, 10.0, 20.0},
		},
		{
			name:      "SearchReusesOneArgument",
			filter:    transaction.Filter{Status: "paid", Search: "u1"},
			wantWhere: " WHERE status ILIKE $1 AND (category ILIKE $2 OR status ILIKE $2 OR user_id ILIKE $2)",
			wantArgs:  []any{"%paid%", "%u1%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildWhere(tt.filter)

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY amount ASC, seq ASC",
		buildOrderBy(transaction.Page{SortBy: transaction.SortByAmount, Order: transaction.SortAsc}))
	assert.Equal(t, " ORDER BY user_id DESC, seq DESC",
		buildOrderBy(transaction.Page{SortBy: transaction.SortByUserID, Order: transaction.SortDesc}))
	assert.Equal(t, " ORDER BY date DESC, seq DESC",
		buildOrderBy(transaction.Page{SortBy: "amount; DROP TABLE transactions"}))
}

func TestBuildFilter(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		assert.Empty(t, buildFilter(transaction.Filter{}))
	})

	t.Run("QuotesRegexMetacharacters", func(t *testing.T) {
		got := buildFilter(transaction.Filter{Category: "a.*(b"})

		require.Len(t, got, 1)
		assert.Equal(t, "category", got[0].Key)
		assert.Equal(t, primitive.Regex{Pattern: `a\.\*\(b`, Options: "i"}, got[0].Value)
	})

	t.Run("Ranges", func(t *testing.T) {
		to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

		got := buildFilter(transaction.Filter{DateTo: &to, MinAmount: new(5.0)})

		assert.Equal(t, bson.D{
			{Key: "date", Value: bson.D{{Key: "$lte", Value: to}}},
			{Key: "amount", Value: bson.D{{Key: "$gte", Value: 5.0}}},
		}, got)
	})

	t.Run("SearchIsDisjunction", func(t *testing.T) {
		got := buildFilter(transaction.Filter{Search: "pend"})
		re := primitive.Regex{Pattern: "pend", Options: "i"}

		assert.Equal(t, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "category", Value: re}},
			bson.D{{Key: "status", Value: re}},
			bson.D{{Key: "user_id", Value: re}},
		}}}, got)
	})
}

func TestBuildSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "amount", Value: 1}, {Key: "_id", Value: 1}},
		buildSort(transaction.Page{SortBy: transaction.SortByAmount, Order: transaction.SortAsc}))
	assert.Equal(t, bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
		buildSort(transaction.Page{SortBy: transaction.SortByDate, Order: transaction.SortDesc}))
}

func TestAnalyticsPipeline_SingleFacetStage(t *testing.T) {
	pipeline := analyticsPipeline()

	require.Len(t, pipeline, 1)
	require.Len(t, pipeline[0], 1)
	assert.Equal(t, "$facet", pipeline[0][0].Key)

	facets, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok)

	for _, name := range []string{
		"revenueExpenseTrend",
		"transactionCountTrend",
		"statusDistribution",
		"topUsersExpense",
		"summaryStats",
	} {
		assert.Contains(t, facets, name)
	}
}
