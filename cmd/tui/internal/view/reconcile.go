package view

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tcmartins/payable/internal/reconcile"
)

type reconcileState int

const (
	reconcileStateFilePick reconcileState = iota
	reconcileStateMatching
	reconcileStateReview
	reconcileStateResult
)

type ReconcileModel struct {
	CommonModel
	svc *reconcile.Service

	state      reconcileState
	filePicker filepicker.Model

	session       *reconcile.Session
	candidates    []reconcile.Candidate
	candidateList list.Model

	confirmed int
	rejected  int

	status string
	err    error
}

func NewReconcileModel(svc *reconcile.Service) ReconcileModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ReconcileModel{
		svc:        svc,
		filePicker: fp,
	}
}

func (m ReconcileModel) Title() string { return "Reconcile Statement" }

func (m ReconcileModel) ShortHelp() string {
	switch m.state {
	case reconcileStateReview:
		return "Enter: confirm match | x: reject | Esc: finish"
	}

	return "Esc: back | Enter: select"
}

func (m ReconcileModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ReconcileModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == reconcileStateReview {
			return m.updateReview(msg)
		}

	case matchResultMsg:
		if msg.err != nil {
			m.state = reconcileStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.session = msg.session
		m.confirmed = 0
		m.rejected = 0
		m.refreshCandidates()

		if len(m.candidates) == 0 {
			m.state = reconcileStateResult
			m.status = "No candidate matches above the score threshold."

			return m, nil
		}

		m.state = reconcileStateReview

		items := make([]list.Item, len(m.candidates))
		for i, c := range m.candidates {
			items[i] = candidateItem{candidate: c}
		}

		m.candidateList = list.New(items, candidateDelegate{}, 90, 20)
		m.candidateList.Title = "Candidate Matches"
		m.candidateList.SetShowStatusBar(false)
		m.candidateList.SetFilteringEnabled(false)
		m.candidateList.SetShowHelp(false)

		return m, nil

	case decisionResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		if msg.confirmed {
			m.confirmed++
		} else {
			m.rejected++
		}

		m.status = msg.status
		m.refreshCandidates()

		if len(m.candidates) == 0 {
			m.state = reconcileStateResult
			m.status = m.summary()

			return m, nil
		}

		items := make([]list.Item, len(m.candidates))
		for i, c := range m.candidates {
			items[i] = candidateItem{candidate: c}
		}
		m.candidateList.SetItems(items)

		return m, nil
	}

	if m.state != reconcileStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = reconcileStateMatching
		m.status = fmt.Sprintf("Matching %s against unpaid installments...", path)

		return m, m.matchCmd(path)
	}

	return m, cmd
}

func (m ReconcileModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case reconcileStateReview:
		m.state = reconcileStateResult
		m.status = m.summary()

		return m, nil
	case reconcileStateResult:
		m.state = reconcileStateFilePick
		m.err = nil
		m.status = ""
		m.session = nil
		m.candidates = nil

		return m, nil
	}

	return m, Back
}

func (m ReconcileModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m, m.decideCmd(true)
	case "x":
		return m, m.decideCmd(false)
	}

	var cmd tea.Cmd
	m.candidateList, cmd = m.candidateList.Update(msg)

	return m, cmd
}

func (m *ReconcileModel) refreshCandidates() {
	if m.session == nil {
		m.candidates = nil
		return
	}

	m.candidates = m.session.Pending()
}

func (m ReconcileModel) summary() string {
	return fmt.Sprintf("Reconciliation done: %d confirmed, %d rejected, %d left pending.",
		m.confirmed, m.rejected, len(m.candidates))
}

func (m ReconcileModel) View() string {
	switch m.state {
	case reconcileStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			"Select a bank statement CSV:\n\n" + m.filePicker.View(),
		)
	case reconcileStateMatching:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case reconcileStateReview:
		content := m.candidateList.View()
		if m.status != "" {
			content += "\n" + lipgloss.NewStyle().Faint(true).Render(m.status)
		}

		return lipgloss.NewStyle().Padding(1).Render(content)
	case reconcileStateResult:
		style := lipgloss.NewStyle().Padding(2)
		if m.err != nil {
			return style.Render(
				lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
					"\n\n(Esc to go back)",
			)
		}

		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return ""
}

// Messages

type matchResultMsg struct {
	session *reconcile.Session
	err     error
}

type decisionResultMsg struct {
	confirmed bool
	status    string
	err       error
}

func (m ReconcileModel) matchCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return matchResultMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := DbCtx()
		defer cancel()

		session, err := m.svc.Start(ctx, f)
		if err != nil {
			return matchResultMsg{err: err}
		}

		return matchResultMsg{session: session}
	}
}

func (m ReconcileModel) decideCmd(confirm bool) tea.Cmd {
	idx := m.candidateList.Index()
	if idx < 0 || idx >= len(m.candidates) {
		return nil
	}

	cand := m.candidates[idx]
	session := m.session

	return func() tea.Msg {
		if !confirm {
			if err := session.Reject(cand.ID); err != nil {
				return decisionResultMsg{err: err}
			}

			return decisionResultMsg{
				confirmed: false,
				status:    fmt.Sprintf("Rejected match for %q", cand.Transaction.Description),
			}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		paid, err := session.Confirm(ctx, cand.ID)
		if err != nil {
			return decisionResultMsg{err: err}
		}

		return decisionResultMsg{
			confirmed: true,
			status:    fmt.Sprintf("Marked %q as paid", paid.Description),
		}
	}
}

// Candidate list item

type candidateItem struct {
	candidate reconcile.Candidate
}

func (i candidateItem) Title() string       { return "" }
func (i candidateItem) Description() string { return "" }
func (i candidateItem) FilterValue() string { return "" }

// Candidate list delegate

type candidateDelegate struct{}

func (d candidateDelegate) Height() int                             { return 3 }
func (d candidateDelegate) Spacing() int                            { return 0 }
func (d candidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	known := ""
	if item.candidate.Known {
		known = " [known]"
	}

	tx := item.candidate.Transaction
	inst := item.candidate.Installment

	line1 := fmt.Sprintf("%sStatement: %s  %s  %s",
		cursor,
		FormatDate(tx.Date),
		FormatAmount(tx.Amount),
		tx.Description,
	)

	line2 := fmt.Sprintf("    Installment: %s  %s  %s (%s)  score %.2f%s",
		FormatDate(inst.DueDate),
		FormatAmount(inst.Amount),
		inst.Description,
		inst.Counterparty,
		item.candidate.Score,
		known,
	)

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
