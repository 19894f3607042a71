package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
	"github.com/MrJamesThe3rd/findash/internal/transaction/store"
)

func newPostgres(t *testing.T) (*store.Postgres, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})

	return store.NewPostgres(db), mock
}

var txColumns = []string{"id", "date", "amount", "category", "status", "user_id", "user_profile"}

func TestPostgres_ListTransactions(t *testing.T) {
	date := time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)

	t.Run("CountAndPageInOneSnapshot", func(t *testing.T) {
		s, mock := newPostgres(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions WHERE category ILIKE $1")).
			WithArgs("%Expense%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE category ILIKE $1 ORDER BY amount ASC, seq ASC LIMIT $2 OFFSET $3")).
			WithArgs("%Expense%", 10, 0).
			WillReturnRows(sqlmock.NewRows(txColumns).
				AddRow("a", date, 30.0, "Expense", "Paid", "u2", "").
				AddRow("b", date, 50.0, "Expense", "Pending", "u1", "ops"))
		mock.ExpectCommit()

		got, total, err := s.ListTransactions(context.Background(),
			transaction.Filter{Category: "Expense"},
			transaction.Page{SortBy: transaction.SortByAmount, Order: transaction.SortAsc, Number: 1, Limit: 10})
		require.NoError(t, err)

		assert.EqualValues(t, 2, total)
		require.Len(t, got, 2)
		assert.Equal(t, transaction.StatusPending, got[1].Status)
		assert.Equal(t, "ops", got[1].UserProfile)
	})

	t.Run("CountFailureRollsBack", func(t *testing.T) {
		s, mock := newPostgres(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM transactions")).
			WillReturnError(errors.New("canceling statement due to statement timeout"))
		mock.ExpectRollback()

		_, _, err := s.ListTransactions(context.Background(), transaction.Filter{}, transaction.DefaultPage())
		assert.Error(t, err)
	})
}

func TestPostgres_InsertTransactions(t *testing.T) {
	s, mock := newPostgres(t)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO transactions"))
	prep.ExpectQuery().
		WithArgs(date, 100.0, transaction.CategoryRevenue, transaction.StatusPaid, "u1", "").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("id-1"))
	mock.ExpectCommit()

	txs := []*transaction.Transaction{
		{Date: date, Amount: 100, Category: transaction.CategoryRevenue, Status: transaction.StatusPaid, UserID: "u1"},
	}

	require.NoError(t, s.InsertTransactions(context.Background(), txs))
	assert.Equal(t, "id-1", txs[0].ID)
}

func TestPostgres_Aggregate(t *testing.T) {
	s, mock := newPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FILTER (WHERE category = 'Revenue')")).
		WillReturnRows(sqlmock.NewRows([]string{"month", "revenue", "expense"}).
			AddRow("2024-01", 100.0, 50.0).
			AddRow("2024-02", 0.0, 30.0))
	mock.ExpectQuery(regexp.QuoteMeta("AS month, COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"month", "count"}).
			AddRow("2024-01", 2).
			AddRow("2024-02", 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("Paid", 2).
			AddRow("Pending", 1))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY total DESC, MIN(seq) ASC")).
		WithArgs(analytics.TopUsersLimit).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "total"}).
			AddRow("u1", 50.0).
			AddRow("u2", 30.0))
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(AVG(amount), 0)")).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "max", "min"}).AddRow(60.0, 100.0, 30.0))
	mock.ExpectCommit()

	got, err := s.Aggregate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []analytics.MonthlyTotals{
		{Month: "2024-01", TotalRevenue: 100, TotalExpense: 50},
		{Month: "2024-02", TotalRevenue: 0, TotalExpense: 30},
	}, got.RevenueExpenseTrend)
	assert.Equal(t, []analytics.UserSpend{{UserID: "u1", TotalSpent: 50}, {UserID: "u2", TotalSpent: 30}}, got.TopUsersExpense)
	assert.Equal(t, analytics.Summary{AvgAmount: 60, MaxAmount: 100, MinAmount: 30}, got.SummaryStats)
	assert.Len(t, got.StatusDistribution, 2)
	assert.Len(t, got.TransactionCountTrend, 2)
}

func TestPostgres_Aggregate_PartFailureFailsAll(t *testing.T) {
	s, mock := newPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FILTER (WHERE category = 'Revenue')")).
		WillReturnError(errors.New("relation does not exist"))
	mock.ExpectRollback()

	got, err := s.Aggregate(context.Background())
	assert.Error(t, err)
	assert.Nil(t, got)
}
