package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type txState int

const (
	txStateBrowse txState = iota
	txStateSearch
	txStateTimeframe
)

var (
	categoryCycle = []string{"", string(transaction.CategoryRevenue), string(transaction.CategoryExpense)}
	statusCycle   = []string{"", string(transaction.StatusPaid), string(transaction.StatusPending)}
)

// TransactionsModel browses the filtered, sorted and paged transaction list.
type TransactionsModel struct {
	CommonModel
	txService *transaction.Service

	state           txState
	table           table.Model
	search          textinput.Model
	timeframePicker TimeframePicker

	categoryIdx int
	statusIdx   int
	query       string
	from, to    *time.Time
	rangeLabel  string
	page        transaction.Page

	result  *transaction.ListResult
	loading bool
	err     error
}

func NewTransactionsModel(txSvc *transaction.Service) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 10},
		{Title: "Status", Width: 10},
		{Title: "User", Width: 24},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(transaction.DefaultLimit+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "category, status or user"
	search.Prompt = "Search: "
	search.CharLimit = 64

	return TransactionsModel{
		txService:       txSvc,
		table:           t,
		search:          search,
		timeframePicker: NewTimeframePicker(TimeframeAll),
		rangeLabel:      TimeframeAll.String(),
		page:            transaction.DefaultPage(),
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }

func (m TransactionsModel) ShortHelp() string {
	switch m.state {
	case txStateSearch:
		return "Enter: apply | Esc: cancel"
	case txStateTimeframe:
		return "Enter: select | Esc: cancel"
	}

	return "/: search | c: category | s: status | t: timeframe | o: sort field | r: reverse | ←/→: page | Esc: back"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadCmd()
}

// Filter is the filter built from the current selections.
func (m TransactionsModel) Filter() transaction.Filter {
	return transaction.Filter{
		Category: categoryCycle[m.categoryIdx],
		Status:   statusCycle[m.statusIdx],
		Search:   m.query,
		DateFrom: m.from,
		DateTo:   m.to,
	}
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTxsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.result = msg.result
			m.refreshTable()
		}

		return m, nil

	case TimeframeSelectedMsg:
		m.from, m.to = msg.From, msg.To
		m.rangeLabel = msg.Label
		m.state = txStateBrowse
		m.timeframePicker.Reset()

		return m.reload()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	switch m.state {
	case txStateSearch:
		return m.updateSearch(msg)
	case txStateTimeframe:
		return m.updateTimeframe(msg)
	}

	return m.updateBrowse(msg)
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "/":
		m.state = txStateSearch
		m.table.Blur()

		return m, m.search.Focus()
	case "t":
		m.state = txStateTimeframe
		return m, nil
	case "c":
		m.categoryIdx = (m.categoryIdx + 1) % len(categoryCycle)
		return m.reload()
	case "s":
		m.statusIdx = (m.statusIdx + 1) % len(statusCycle)
		return m.reload()
	case "o":
		m.page.SortBy = nextSortField(m.page.SortBy)
		return m.reload()
	case "r":
		if m.page.Order == transaction.SortAsc {
			m.page.Order = transaction.SortDesc
		} else {
			m.page.Order = transaction.SortAsc
		}

		return m.reload()
	case "right", "l", "n":
		if m.result != nil && m.page.Number < m.result.Pagination.TotalPages {
			m.page.Number++
			m.loading = true

			return m, m.loadCmd()
		}

		return m, nil
	case "left", "h", "p":
		if m.page.Number > 1 {
			m.page.Number--
			m.loading = true

			return m, m.loadCmd()
		}

		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEnter:
			m.state = txStateBrowse
			m.query = strings.TrimSpace(m.search.Value())
			m.search.Blur()
			m.table.Focus()

			return m.reload()
		case tea.KeyEsc:
			m.state = txStateBrowse
			m.search.Blur()
			m.search.SetValue(m.query)
			m.table.Focus()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	return m, cmd
}

func (m TransactionsModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			m.state = txStateBrowse
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

// reload goes back to the first page after a filter or sort change.
func (m TransactionsModel) reload() (tea.Model, tea.Cmd) {
	m.page.Number = 1
	m.loading = true

	return m, m.loadCmd()
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, len(m.result.Data))

	for i, tx := range m.result.Data {
		rows[i] = table.Row{
			FormatDate(tx.Date),
			FormatAmount(tx.Amount),
			string(tx.Category),
			string(tx.Status),
			tx.UserID,
		}
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func nextSortField(f transaction.SortField) transaction.SortField {
	for i, sf := range transaction.SortFields {
		if sf == f {
			return transaction.SortFields[(i+1)%len(transaction.SortFields)]
		}
	}

	return transaction.SortByDate
}

func orAll(s string) string {
	if s == "" {
		return "All"
	}

	return s
}

func (m TransactionsModel) View() string {
	if m.state == txStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	filters := fmt.Sprintf("Category: %s | Status: %s | Range: %s | Sort: %s %s",
		orAll(categoryCycle[m.categoryIdx]),
		orAll(statusCycle[m.statusIdx]),
		m.rangeLabel,
		m.page.SortBy,
		m.page.Order,
	)

	var footer string

	switch {
	case m.err != nil:
		footer = errorStyle.Render(fmt.Sprintf("Error: %v", m.err))
	case m.loading:
		footer = faintStyle.Render("Loading...")
	case m.result != nil:
		p := m.result.Pagination
		footer = fmt.Sprintf("Page %d of %d | %d transactions", p.Page, max(p.TotalPages, 1), p.Total)
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headingStyle.Render(m.Title()),
			faintStyle.Render(filters),
			m.search.View(),
			"",
			m.table.View(),
			"",
			footer,
			faintStyle.Render(m.ShortHelp()),
		),
	)
}

type loadTxsMsg struct {
	result *transaction.ListResult
	err    error
}

func (m TransactionsModel) loadCmd() tea.Cmd {
	filter, page := m.Filter(), m.page

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		res, err := m.txService.List(ctx, filter, page)

		return loadTxsMsg{result: res, err: err}
	}
}
