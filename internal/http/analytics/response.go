package analytics

import "github.com/MrJamesThe3rd/findash/internal/analytics"

type monthlyTotalsResponse struct {
	Month        string  `json:"month"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalExpense float64 `json:"totalExpense"`
}

type monthlyCountResponse struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

type statusCountResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type userSpendResponse struct {
	UserID     string  `json:"user_id"`
	TotalSpent float64 `json:"totalSpent"`
}

type summaryResponse struct {
	AvgAmount float64 `json:"avgAmount"`
	MaxAmount float64 `json:"maxAmount"`
	MinAmount float64 `json:"minAmount"`
}

type reportResponse struct {
	RevenueExpenseTrend   []monthlyTotalsResponse `json:"revenueExpenseTrend"`
	StatusDistribution    []statusCountResponse   `json:"statusDistribution"`
	TopUsersExpense       []userSpendResponse     `json:"topUsersExpense"`
	TransactionCountTrend []monthlyCountResponse  `json:"transactionCountTrend"`
	SummaryStats          summaryResponse         `json:"summaryStats"`
}

func toResponse(r *analytics.Report) reportResponse {
	resp := reportResponse{
		RevenueExpenseTrend:   make([]monthlyTotalsResponse, len(r.RevenueExpenseTrend)),
		StatusDistribution:    make([]statusCountResponse, len(r.StatusDistribution)),
		TopUsersExpense:       make([]userSpendResponse, len(r.TopUsersExpense)),
		TransactionCountTrend: make([]monthlyCountResponse, len(r.TransactionCountTrend)),
		SummaryStats: summaryResponse{
			AvgAmount: r.SummaryStats.AvgAmount,
			MaxAmount: r.SummaryStats.MaxAmount,
			MinAmount: r.SummaryStats.MinAmount,
		},
	}

	for i, m := range r.RevenueExpenseTrend {
		resp.RevenueExpenseTrend[i] = monthlyTotalsResponse(m)
	}

	for i, s := range r.StatusDistribution {
		resp.StatusDistribution[i] = statusCountResponse(s)
	}

	for i, u := range r.TopUsersExpense {
		resp.TopUsersExpense[i] = userSpendResponse(u)
	}

	for i, m := range r.TransactionCountTrend {
		resp.TransactionCountTrend[i] = monthlyCountResponse(m)
	}

	return resp
}
