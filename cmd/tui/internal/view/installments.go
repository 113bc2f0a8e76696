package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tcmartins/payable/internal/installment"
)

type installmentsState int

const (
	installmentsStateBrowse installmentsState = iota
	installmentsStatePay
	installmentsStateConfirmDelete
)

type InstallmentsModel struct {
	CommonModel
	svc *installment.Service

	state installmentsState
	table table.Model
	insts []*installment.Installment
	form  *huh.Form

	// Filter cycling
	statusFilterIdx int
	dateFilterIdx   int

	filter  installment.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formPayDate   string
	formPayNote   string
	formConfirmed bool
}

func NewInstallmentsModel(svc *installment.Service) InstallmentsModel {
	columns := []table.Column{
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 9},
		{Title: "Amount", Width: 12},
		{Title: "Counterparty", Width: 28},
		{Title: "Description", Width: 32},
		{Title: "Series", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	return InstallmentsModel{
		svc:    svc,
		table:  t,
		filter: installment.ListFilter{},
	}
}

func (m InstallmentsModel) Title() string { return "Installments" }

func (m InstallmentsModel) ShortHelp() string {
	switch m.state {
	case installmentsStatePay:
		return "Navigate form | Esc: cancel"
	case installmentsStateConfirmDelete:
		return "y/n | Esc: cancel"
	}

	return "Esc: back | p: pay | c: cancel payment | x: delete | s: status filter | d: date filter | r: refresh"
}

func (m InstallmentsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InstallmentsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInstallmentsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.insts = msg.insts
		m.err = nil
		m.refreshTable()

		return m, nil

	case installmentActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = installmentsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case installmentsStateBrowse:
		return m.updateBrowse(msg)
	case installmentsStatePay, installmentsStateConfirmDelete:
		return m.updateForm(msg)
	}

	return m, nil
}

func (m InstallmentsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "p":
			return m.enterPayMode()
		case "c":
			return m, m.cancelPaymentCmd()
		case "x":
			return m.enterDeleteMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % 4
			m.applyFilter()

			return m, m.loadCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter()

			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InstallmentsModel) selected() *installment.Installment {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.insts) {
		return nil
	}

	return m.insts[idx]
}

func (m InstallmentsModel) enterPayMode() (tea.Model, tea.Cmd) {
	inst := m.selected()
	if inst == nil {
		return m, nil
	}

	if inst.Status == installment.StatusPaid {
		m.status = "Already paid"
		return m, nil
	}

	m.formPayDate = FormatDate(time.Now())
	m.formPayNote = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("payment_date").
				Title("Payment Date").
				Value(&m.formPayDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("note").
				Title("Note").
				Placeholder("optional").
				Value(&m.formPayNote),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = installmentsStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m InstallmentsModel) enterDeleteMode() (tea.Model, tea.Cmd) {
	inst := m.selected()
	if inst == nil {
		return m, nil
	}

	m.formConfirmed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Delete %q due %s?", inst.Description, FormatDate(inst.DueDate))).
				Description("The row is removed; the undo journal keeps a snapshot.").
				Value(&m.formConfirmed),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = installmentsStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m InstallmentsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = installmentsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	switch m.state {
	case installmentsStatePay:
		return m, m.payCmd()
	case installmentsStateConfirmDelete:
		if !m.formConfirmed {
			m.state = installmentsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		return m, m.deleteCmd()
	}

	return m, cmd
}

func (m InstallmentsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading installments...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabels := []string{"All", "Open", "Overdue", "Paid"}
	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s",
		activeStyle(statusLabels[m.statusFilterIdx]),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.form != nil && m.state != installmentsStateBrowse {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(64).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *InstallmentsModel) applyFilter() {
	switch m.statusFilterIdx {
	case 1:
		m.filter.Status = new(installment.StatusOpen)
	case 2:
		m.filter.Status = new(installment.StatusOverdue)
	case 3:
		m.filter.Status = new(installment.StatusPaid)
	default:
		m.filter.Status = nil
	}

	now := time.Now()

	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func (m *InstallmentsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.insts))

	for _, inst := range m.insts {
		series := ""
		if inst.SeriesCount > 0 {
			series = fmt.Sprintf("%d/%d", inst.SeriesIndex, inst.SeriesCount)
		}

		if inst.Recurring {
			series = "rec"
		}

		rows = append(rows, table.Row{
			FormatDate(inst.DueDate),
			string(inst.Status),
			FormatAmount(inst.Amount),
			inst.Counterparty,
			inst.Description,
			series,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadInstallmentsMsg struct {
	insts []*installment.Installment
	err   error
}

func (m InstallmentsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		insts, err := m.svc.List(ctx, m.filter)

		return loadInstallmentsMsg{insts: insts, err: err}
	}
}

type installmentActionMsg struct {
	status string
	err    error
}

func (m InstallmentsModel) payCmd() tea.Cmd {
	inst := m.selected()
	if inst == nil {
		return nil
	}

	payDate, err := time.Parse("2006-01-02", strings.TrimSpace(m.formPayDate))
	if err != nil {
		return func() tea.Msg { return installmentActionMsg{err: err} }
	}

	note := m.formPayNote

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.RegisterPayment(ctx, inst.ID, payDate, note); err != nil {
			return installmentActionMsg{err: err}
		}

		return installmentActionMsg{status: fmt.Sprintf("Paid %q", inst.Description)}
	}
}

func (m InstallmentsModel) cancelPaymentCmd() tea.Cmd {
	inst := m.selected()
	if inst == nil || inst.Status != installment.StatusPaid {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if _, err := m.svc.CancelPayment(ctx, inst.ID); err != nil {
			return installmentActionMsg{err: err}
		}

		return installmentActionMsg{status: fmt.Sprintf("Payment of %q cancelled", inst.Description)}
	}
}

func (m InstallmentsModel) deleteCmd() tea.Cmd {
	inst := m.selected()
	if inst == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.svc.Delete(ctx, inst.ID); err != nil {
			return installmentActionMsg{err: err}
		}

		return installmentActionMsg{status: fmt.Sprintf("Deleted %q", inst.Description)}
	}
}
