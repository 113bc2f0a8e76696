package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/tcmartins/payable/internal/undo"
)

type undoState int

const (
	undoStateBrowse undoState = iota
	undoStateConfirm
)

type UndoModel struct {
	CommonModel
	journal *undo.Journal

	state   undoState
	table   table.Model
	actions []undo.Action
	form    *huh.Form

	confirmed bool
	status    string
}

func NewUndoModel(journal *undo.Journal) UndoModel {
	columns := []table.Column{
		{Title: "When", Width: 19},
		{Title: "Kind", Width: 8},
		{Title: "Table", Width: 14},
		{Title: "Description", Width: 48},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	return UndoModel{journal: journal, table: t}
}

func (m UndoModel) Title() string { return "Undo Journal" }

func (m UndoModel) ShortHelp() string {
	if m.state == undoStateConfirm {
		return "y/n | Esc: cancel"
	}

	return "Esc: back | Enter: revert | r: refresh"
}

func (m UndoModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m UndoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadActionsMsg:
		m.actions = msg.actions
		m.refreshTable()

		return m, nil

	case revertResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v (action kept for retry)", msg.err)
		} else {
			m.status = msg.status
		}

		m.state = undoStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadCmd()
	}

	switch m.state {
	case undoStateBrowse:
		return m.updateBrowse(msg)
	case undoStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m UndoModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "enter":
			return m.enterConfirm()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m UndoModel) selected() *undo.Action {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.actions) {
		return nil
	}

	return &m.actions[idx]
}

func (m UndoModel) enterConfirm() (tea.Model, tea.Cmd) {
	action := m.selected()
	if action == nil {
		return m, nil
	}

	m.confirmed = false

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(fmt.Sprintf("Revert %q?", action.Description)).
				Description("Applies the compensating write and removes the action.").
				Value(&m.confirmed),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = undoStateConfirm
	m.table.Blur()

	return m, m.form.Init()
}

func (m UndoModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = undoStateBrowse
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

	if !m.confirmed {
		m.state = undoStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.revertCmd()
}

func (m UndoModel) View() string {
	if len(m.actions) == 0 && m.state == undoStateBrowse {
		return lipgloss.NewStyle().Padding(2).Render("Journal is empty.")
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.form != nil && m.state == undoStateConfirm {
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

func (m *UndoModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.actions))

	for _, a := range m.actions {
		rows = append(rows, table.Row{
			a.RecordedAt.Format("2006-01-02 15:04:05"),
			string(a.Kind),
			a.Table,
			a.Description,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadActionsMsg struct {
	actions []undo.Action
}

func (m UndoModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadActionsMsg{actions: m.journal.List()}
	}
}

type revertResultMsg struct {
	status string
	err    error
}

func (m UndoModel) revertCmd() tea.Cmd {
	action := m.selected()
	if action == nil {
		return nil
	}

	id := action.ID
	desc := action.Description

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.journal.Undo(ctx, id); err != nil {
			return revertResultMsg{err: err}
		}

		return revertResultMsg{status: fmt.Sprintf("Reverted %q", desc)}
	}
}
