package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

// Postgres stores transactions in the relational transactions table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `id, date, amount, category, status, user_id, user_profile`

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		tx                  transaction.Transaction
		category, statusStr string
	)

	if err := s.Scan(&tx.ID, &tx.Date, &tx.Amount, &category, &statusStr, &tx.UserID, &tx.UserProfile); err != nil {
		return nil, err
	}

	tx.Date = tx.Date.UTC()
	tx.Category = transaction.Category(category)
	tx.Status = transaction.Status(statusStr)

	return &tx, nil
}

var sortColumns = map[transaction.SortField]string{
	transaction.SortByDate:     "date",
	transaction.SortByAmount:   "amount",
	transaction.SortByCategory: "category",
	transaction.SortByStatus:   "status",
	transaction.SortByUserID:   "user_id",
}

// readSnapshot is used for every multi-statement read so that all statements
// see the same data.
var readSnapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

func (s *Postgres) ListTransactions(ctx context.Context, filter transaction.Filter, page transaction.Page) ([]*transaction.Transaction, int64, error) {
	where, args := buildWhere(filter)

	dbTx, err := s.db.BeginTx(ctx, readSnapshot)
	if err != nil {
		return nil, 0, fmt.Errorf("beginning read: %w", err)
	}
	defer dbTx.Rollback()

	var total int64
	if err := dbTx.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions%s%s LIMIT $%d OFFSET $%d`,
		selectTransactionColumns, where, buildOrderBy(page), len(args)+1, len(args)+2)

	rows, err := dbTx.QueryContext(ctx, query, append(args, page.Take(), page.Skip())...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating transaction rows: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("committing read: %w", err)
	}

	return txs, total, nil
}

// buildWhere translates a Filter into a WHERE clause with positional
// arguments. It returns an empty clause for an empty filter.
func buildWhere(f transaction.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Category != "" {
		add("category ILIKE $%d", likePattern(f.Category))
	}

	if f.Status != "" {
		add("status ILIKE $%d", likePattern(f.Status))
	}

	if f.UserID != "" {
		add("user_id ILIKE $%d", likePattern(f.UserID))
	}

	if f.DateFrom != nil {
		add("date >= $%d", *f.DateFrom)
	}

	if f.DateTo != nil {
		add("date <= $%d", *f.DateTo)
	}

	if f.MinAmount != nil {
		add("amount >= $%d", *f.MinAmount)
	}

	if f.MaxAmount != nil {
		add("amount <= $%d", *f.MaxAmount)
	}

	if f.Search != "" {
		args = append(args, likePattern(f.Search))
		n := len(args)
		conds = append(conds, fmt.Sprintf("(category ILIKE $%d OR status ILIKE $%d OR user_id ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps s for a substring ILIKE match with its wildcards escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// buildOrderBy orders by an allow-listed column, then by insertion sequence in
// the same direction.
func buildOrderBy(p transaction.Page) string {
	col, ok := sortColumns[p.SortBy]
	if !ok {
		col = sortColumns[transaction.SortByDate]
	}

	dir := "DESC"
	if p.Order == transaction.SortAsc {
		dir = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s, seq %s", col, dir, dir)
}

func (s *Postgres) InsertTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO transactions (date, amount, category, status, user_id, user_profile)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		err := stmt.QueryRowContext(ctx,
			tx.Date,
			tx.Amount,
			tx.Category,
			tx.Status,
			tx.UserID,
			tx.UserProfile,
		).Scan(&tx.ID)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing insert: %w", err)
	}

	return nil
}

const (
	monthExpr = `to_char(date AT TIME ZONE 'UTC', 'YYYY-MM')`

	revenueExpenseTrendQuery = `
		SELECT ` + monthExpr + ` AS month,
			COALESCE(SUM(amount) FILTER (WHERE category = 'Revenue'), 0),
			COALESCE(SUM(amount) FILTER (WHERE category = 'Expense'), 0)
		FROM transactions
		GROUP BY month
		ORDER BY month`

	transactionCountTrendQuery = `
		SELECT ` + monthExpr + ` AS month, COUNT(*)
		FROM transactions
		GROUP BY month
		ORDER BY month`

	statusDistributionQuery = `
		SELECT status, COUNT(*)
		FROM transactions
		GROUP BY status
		ORDER BY status`

	topUsersExpenseQuery = `
		SELECT user_id, SUM(amount) AS total
		FROM transactions
		WHERE category = 'Expense'
		GROUP BY user_id
		ORDER BY total DESC, MIN(seq) ASC
		LIMIT $1`

	summaryStatsQuery = `
		SELECT COALESCE(AVG(amount), 0), COALESCE(MAX(amount), 0), COALESCE(MIN(amount), 0)
		FROM transactions`
)

// Aggregate runs every report query inside one read-only snapshot.
func (s *Postgres) Aggregate(ctx context.Context) (*analytics.Report, error) {
	dbTx, err := s.db.BeginTx(ctx, readSnapshot)
	if err != nil {
		return nil, fmt.Errorf("beginning read: %w", err)
	}
	defer dbTx.Rollback()

	report := &analytics.Report{}

	err = queryEach(ctx, dbTx, revenueExpenseTrendQuery, nil, func(s scanner) error {
		var r analytics.MonthlyTotals
		if err := s.Scan(&r.Month, &r.TotalRevenue, &r.TotalExpense); err != nil {
			return err
		}

		report.RevenueExpenseTrend = append(report.RevenueExpenseTrend, r)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("revenue/expense trend: %w", err)
	}

	err = queryEach(ctx, dbTx, transactionCountTrendQuery, nil, func(s scanner) error {
		var r analytics.MonthlyCount
		if err := s.Scan(&r.Month, &r.Count); err != nil {
			return err
		}

		report.TransactionCountTrend = append(report.TransactionCountTrend, r)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("transaction count trend: %w", err)
	}

	err = queryEach(ctx, dbTx, statusDistributionQuery, nil, func(s scanner) error {
		var r analytics.StatusCount
		if err := s.Scan(&r.Status, &r.Count); err != nil {
			return err
		}

		report.StatusDistribution = append(report.StatusDistribution, r)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("status distribution: %w", err)
	}

	err = queryEach(ctx, dbTx, topUsersExpenseQuery, []any{analytics.TopUsersLimit}, func(s scanner) error {
		var r analytics.UserSpend
		if err := s.Scan(&r.UserID, &r.TotalSpent); err != nil {
			return err
		}

		report.TopUsersExpense = append(report.TopUsersExpense, r)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("top users: %w", err)
	}

	stats := &report.SummaryStats
	if err := dbTx.QueryRowContext(ctx, summaryStatsQuery).Scan(&stats.AvgAmount, &stats.MaxAmount, &stats.MinAmount); err != nil {
		return nil, fmt.Errorf("summary stats: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return nil, fmt.Errorf("committing read: %w", err)
	}

	return report, nil
}

func queryEach(ctx context.Context, dbTx *sql.Tx, query string, args []any, scan func(scanner) error) error {
	rows, err := dbTx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
