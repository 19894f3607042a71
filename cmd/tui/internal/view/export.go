package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/findash/internal/export"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

const exportTimeout = time.Minute

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateForm
	exportStateExporting
	exportStateResult
)

// exportFields holds the form bindings. It sits behind a pointer so the form
// writes survive the model being copied on every update.
type exportFields struct {
	path    string
	columns []string
	limit   int
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state           exportState
	timeframePicker TimeframePicker
	from, to        *time.Time

	form    *huh.Form
	fields  *exportFields
	spinner spinner.Model

	written int
	file    string
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService:   svc,
		state:           exportStateTimeframe,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		spinner:         s,
	}
}

func (m ExportModel) Title() string { return "Export Transactions" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if tfMsg, ok := msg.(TimeframeSelectedMsg); ok {
		m.from, m.to = tfMsg.From, tfMsg.To
		m.fields = &exportFields{
			path:    export.Filename(time.Now()),
			columns: columnNames(export.DefaultColumns),
			limit:   transaction.MaxLimit,
		}
		m.form = buildExportForm(m.fields)
		m.state = exportStateForm

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.timeframePicker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(*m.fields))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.written, m.file, m.err = result.written, result.file, result.err

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildExportForm(f *exportFields) *huh.Form {
	columnOptions := make([]huh.Option[string], len(export.Columns))
	for i, c := range export.Columns {
		columnOptions[i] = huh.NewOption(string(c), string(c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output File").
				Description("Parent directories are created when missing").
				Value(&f.path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}

					return nil
				}),
			huh.NewMultiSelect[string]().
				Key("columns").
				Title("Columns").
				Options(columnOptions...).
				Value(&f.columns).
				Validate(func(cols []string) error {
					if len(cols) == 0 {
						return fmt.Errorf("select at least one column")
					}

					return nil
				}),
			huh.NewSelect[int]().
				Key("limit").
				Title("Rows").
				Description("Newest first").
				Options(
					huh.NewOption("10", 10),
					huh.NewOption("50", 50),
					huh.NewOption(fmt.Sprintf("%d", transaction.MaxLimit), transaction.MaxLimit),
				).
				Value(&f.limit),
		),
	).WithWidth(60).WithShowHelp(false)
}

func columnNames(cols []export.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = string(c)
	}

	return names
}

func (m ExportModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case exportStateTimeframe:
		return style.Render(m.timeframePicker.View())
	case exportStateForm:
		return style.Render(m.form.View())
	case exportStateExporting:
		return style.Render(fmt.Sprintf("%s Writing CSV...", m.spinner.View()))
	case exportStateResult:
		if m.err != nil {
			return style.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n(Esc to go back)")
		}

		return style.Render(
			successStyle.Render("Export Complete!") +
				fmt.Sprintf("\n\nWrote %d transactions to %s\n\n(Esc to go back)", m.written, m.file),
		)
	}

	return ""
}

type exportResultMsg struct {
	written int
	file    string
	err     error
}

func (m ExportModel) runExportCmd(f exportFields) tea.Cmd {
	filter := transaction.Filter{DateFrom: m.from, DateTo: m.to}
	page := transaction.Page{
		SortBy: transaction.SortByDate,
		Order:  transaction.SortDesc,
		Number: 1,
		Limit:  f.limit,
	}

	cols := make([]export.Column, len(f.columns))
	for i, c := range f.columns {
		cols[i] = export.Column(c)
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		path := strings.TrimSpace(f.path)

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating output directory: %w", err)}
		}

		out, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: fmt.Errorf("creating file: %w", err)}
		}

		n, err := m.exportService.WriteCSV(ctx, out, filter, page, cols)
		if closeErr := out.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing file: %w", closeErr)
		}

		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{written: n, file: path}
	}
}
