package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/findash/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/findash/internal/analytics"
	"github.com/MrJamesThe3rd/findash/internal/backend"
	"github.com/MrJamesThe3rd/findash/internal/config"
	"github.com/MrJamesThe3rd/findash/internal/export"
	"github.com/MrJamesThe3rd/findash/internal/importer"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

const openTimeout = 15 * time.Second

type screen int

const (
	screenMenu screen = iota
	screenTransactions
	screenAnalytics
	screenImport
	screenExport
)

type model struct {
	txService        *transaction.Service
	analyticsService *analytics.Service
	importService    *importer.Service
	exportService    *export.Service

	current screen
	active  view.View
	size    tea.WindowSizeMsg
}

func newModel(store *backend.Backend, cfg *config.Config) model {
	txSvc := transaction.NewService(store.Transactions, cfg.Server.QueryTimeout)

	return model{
		txService:        txSvc,
		analyticsService: analytics.NewService(store.Transactions, cfg.Server.QueryTimeout),
		importService:    importer.NewService(),
		exportService:    export.NewService(txSvc),
		current:          screenMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// open builds a fresh view for s so every visit starts from a clean state.
func (m model) open(s screen) view.View {
	switch s {
	case screenTransactions:
		return view.NewTransactionsModel(m.txService)
	case screenAnalytics:
		return view.NewAnalyticsModel(m.analyticsService)
	case screenImport:
		return view.NewImportModel(m.txService, m.importService)
	case screenExport:
		return view.NewExportModel(m.exportService)
	}

	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == screenMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.current = screenMenu
		m.active = nil

		return m, nil
	}

	if m.active == nil {
		return m, nil
	}

	next, cmd := m.active.Update(msg)
	if v, ok := next.(view.View); ok {
		m.active = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var s screen

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		s = screenTransactions
	case "2":
		s = screenAnalytics
	case "3":
		s = screenImport
	case "4":
		s = screenExport
	default:
		return m, nil
	}

	m.current = s
	m.active = m.open(s)

	cmds := []tea.Cmd{m.active.Init()}
	if m.size.Width > 0 {
		size := m.size
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

var menuTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))

func (m model) View() string {
	if m.current == screenMenu || m.active == nil {
		return lipgloss.NewStyle().Padding(2).Render(
			menuTitleStyle.Render("FinDash TUI") + "\n\n" +
				"1. Transactions\n" +
				"2. Analytics\n" +
				"3. Import Transactions\n" +
				"4. Export Transactions\n\n" +
				"q. Quit",
		)
	}

	return m.active.View()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	store, err := backend.Open(ctx, cfg)

	cancel()

	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(store, cfg), tea.WithAltScreen())
	_, runErr := p.Run()

	closeCtx, cancelClose := context.WithTimeout(context.Background(), openTimeout)
	defer cancelClose()

	if err := store.Close(closeCtx); err != nil {
		slog.Error("failed to close storage", "error", err)
	}

	if runErr != nil {
		slog.Error("failed to run TUI", "error", runErr)
		os.Exit(1)
	}
}
