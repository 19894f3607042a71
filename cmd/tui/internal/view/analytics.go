package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/findash/internal/analytics"
)

const barWidth = 30

var (
	revenueBar = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseBar = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	neutralBar = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// AnalyticsModel shows the dashboard aggregates as bar charts.
type AnalyticsModel struct {
	CommonModel
	svc *analytics.Service

	report  *analytics.Report
	loading bool
	err     error
}

func NewAnalyticsModel(svc *analytics.Service) AnalyticsModel {
	return AnalyticsModel{svc: svc, loading: true}
}

func (m AnalyticsModel) Title() string { return "Analytics" }

func (m AnalyticsModel) ShortHelp() string { return "r: refresh | Esc: back" }

func (m AnalyticsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AnalyticsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analyticsLoadedMsg:
		m.loading = false
		m.report, m.err = msg.report, msg.err

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m AnalyticsModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch {
	case m.err != nil:
		return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" + faintStyle.Render(m.ShortHelp()))
	case m.loading || m.report == nil:
		return style.Render(faintStyle.Render("Loading analytics..."))
	}

	r := m.report

	left := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Revenue vs Expense"),
		renderTrend(r.RevenueExpenseTrend),
		"",
		headingStyle.Render("Transactions per Month"),
		renderCounts(r.TransactionCountTrend),
	)

	right := lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Status"),
		renderStatuses(r.StatusDistribution),
		"",
		headingStyle.Render("Top Spenders"),
		renderTopUsers(r.TopUsersExpense),
		"",
		headingStyle.Render("Summary"),
		renderSummary(r.SummaryStats),
	)

	return style.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right),
		"",
		faintStyle.Render(m.ShortHelp()),
	))
}

// Bar renders value as a run of block characters scaled so that peak spans
// width cells. Any positive value gets at least one cell.
func Bar(value, peak float64, width int) string {
	if value <= 0 || peak <= 0 || width <= 0 {
		return ""
	}

	n := int(value / peak * float64(width))
	n = min(max(n, 1), width)

	return strings.Repeat("█", n)
}

func renderTrend(trend []analytics.MonthlyTotals) string {
	if len(trend) == 0 {
		return faintStyle.Render("no data")
	}

	var peak float64
	for _, t := range trend {
		peak = max(peak, t.TotalRevenue, t.TotalExpense)
	}

	var sb strings.Builder

	for _, t := range trend {
		fmt.Fprintf(&sb, "%s + %s %s\n", t.Month, revenueBar.Render(Bar(t.TotalRevenue, peak, barWidth)), FormatAmount(t.TotalRevenue))
		fmt.Fprintf(&sb, "%7s - %s %s\n", "", expenseBar.Render(Bar(t.TotalExpense, peak, barWidth)), FormatAmount(t.TotalExpense))
	}

	return strings.TrimRight(sb.String(), "\n")
}

func renderCounts(counts []analytics.MonthlyCount) string {
	if len(counts) == 0 {
		return faintStyle.Render("no data")
	}

	var peak float64
	for _, c := range counts {
		peak = max(peak, float64(c.Count))
	}

	lines := make([]string, len(counts))
	for i, c := range counts {
		lines[i] = fmt.Sprintf("%s %s %d", c.Month, neutralBar.Render(Bar(float64(c.Count), peak, barWidth)), c.Count)
	}

	return strings.Join(lines, "\n")
}

func renderStatuses(statuses []analytics.StatusCount) string {
	if len(statuses) == 0 {
		return faintStyle.Render("no data")
	}

	var total int64
	for _, s := range statuses {
		total += s.Count
	}

	lines := make([]string, len(statuses))
	for i, s := range statuses {
		lines[i] = fmt.Sprintf("%-8s %s %d", s.Status, neutralBar.Render(Bar(float64(s.Count), float64(total), barWidth/2)), s.Count)
	}

	return strings.Join(lines, "\n")
}

func renderTopUsers(users []analytics.UserSpend) string {
	if len(users) == 0 {
		return faintStyle.Render("no expenses")
	}

	peak := users[0].TotalSpent

	lines := make([]string, len(users))
	for i, u := range users {
		lines[i] = fmt.Sprintf("%d. %-16s %s %s", i+1, u.UserID, expenseBar.Render(Bar(u.TotalSpent, peak, barWidth/2)), FormatAmount(u.TotalSpent))
	}

	return strings.Join(lines, "\n")
}

func renderSummary(s analytics.Summary) string {
	return fmt.Sprintf("Average %s\nMaximum %s\nMinimum %s",
		FormatAmount(s.AvgAmount), FormatAmount(s.MaxAmount), FormatAmount(s.MinAmount))
}

type analyticsLoadedMsg struct {
	report *analytics.Report
	err    error
}

func (m AnalyticsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		report, err := m.svc.Compute(ctx)

		return analyticsLoadedMsg{report: report, err: err}
	}
}
