package analytics

import (
	"cmp"
	"slices"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

// TopUsersLimit caps the number of entries in Report.TopUsersExpense.
const TopUsersLimit = 5

// MonthFormat is the layout of month keys, always in UTC.
const MonthFormat = "2006-01"

type MonthlyTotals struct {
	Month        string
	TotalRevenue float64
	TotalExpense float64
}

type MonthlyCount struct {
	Month string
	Count int64
}

type StatusCount struct {
	Status string
	Count  int64
}

type UserSpend struct {
	UserID     string
	TotalSpent float64
}

type Summary struct {
	AvgAmount float64
	MaxAmount float64
	MinAmount float64
}

// Report holds every aggregate computed over the whole transaction collection.
type Report struct {
	RevenueExpenseTrend   []MonthlyTotals
	TransactionCountTrend []MonthlyCount
	StatusDistribution    []StatusCount
	TopUsersExpense       []UserSpend
	SummaryStats          Summary
}

// Compute builds a Report from an in-memory collection. txs must be in
// insertion order; it decides ties between users with equal spend.
func Compute(txs []*transaction.Transaction) *Report {
	var (
		trend    = map[string]*MonthlyTotals{}
		counts   = map[string]int64{}
		statuses = map[string]int64{}
		spend    = map[string]float64{}
		users    []string
		sum      float64
	)

	report := &Report{}

	for i, tx := range txs {
		month := tx.Date.UTC().Format(MonthFormat)

		mt, ok := trend[month]
		if !ok {
			mt = &MonthlyTotals{Month: month}
			trend[month] = mt
		}

		switch tx.Category {
		case transaction.CategoryRevenue:
			mt.TotalRevenue += tx.Amount
		case transaction.CategoryExpense:
			mt.TotalExpense += tx.Amount

			if _, seen := spend[tx.UserID]; !seen {
				users = append(users, tx.UserID)
			}

			spend[tx.UserID] += tx.Amount
		}

		counts[month]++
		statuses[string(tx.Status)]++
		sum += tx.Amount

		if i == 0 {
			report.SummaryStats.MaxAmount = tx.Amount
			report.SummaryStats.MinAmount = tx.Amount
		} else {
			report.SummaryStats.MaxAmount = max(report.SummaryStats.MaxAmount, tx.Amount)
			report.SummaryStats.MinAmount = min(report.SummaryStats.MinAmount, tx.Amount)
		}
	}

	if len(txs) > 0 {
		report.SummaryStats.AvgAmount = sum / float64(len(txs))
	}

	for _, mt := range trend {
		report.RevenueExpenseTrend = append(report.RevenueExpenseTrend, *mt)
	}

	for month, n := range counts {
		report.TransactionCountTrend = append(report.TransactionCountTrend, MonthlyCount{Month: month, Count: n})
	}

	for status, n := range statuses {
		report.StatusDistribution = append(report.StatusDistribution, StatusCount{Status: status, Count: n})
	}

	for _, id := range users {
		report.TopUsersExpense = append(report.TopUsersExpense, UserSpend{UserID: id, TotalSpent: spend[id]})
	}

	return normalize(report)
}

// normalize puts a Report into its canonical shape: months and statuses
// ascending, top users by spend descending with ties kept in incoming order,
// and no nil slices.
func normalize(r *Report) *Report {
	if r == nil {
		r = &Report{}
	}

	slices.SortFunc(r.RevenueExpenseTrend, func(a, b MonthlyTotals) int { return cmp.Compare(a.Month, b.Month) })
	slices.SortFunc(r.TransactionCountTrend, func(a, b MonthlyCount) int { return cmp.Compare(a.Month, b.Month) })
	slices.SortFunc(r.StatusDistribution, func(a, b StatusCount) int { return cmp.Compare(a.Status, b.Status) })
	slices.SortStableFunc(r.TopUsersExpense, func(a, b UserSpend) int { return cmp.Compare(b.TotalSpent, a.TotalSpent) })

	if len(r.TopUsersExpense) > TopUsersLimit {
		r.TopUsersExpense = r.TopUsersExpense[:TopUsersLimit]
	}

	if r.RevenueExpenseTrend == nil {
		r.RevenueExpenseTrend = []MonthlyTotals{}
	}

	if r.TransactionCountTrend == nil {
		r.TransactionCountTrend = []MonthlyCount{}
	}

	if r.StatusDistribution == nil {
		r.StatusDistribution = []StatusCount{}
	}

	if r.TopUsersExpense == nil {
		r.TopUsersExpense = []UserSpend{}
	}

	return r
}
