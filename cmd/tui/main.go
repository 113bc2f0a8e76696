package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/tcmartins/payable/cmd/tui/internal/view"
	"github.com/tcmartins/payable/internal/config"
	"github.com/tcmartins/payable/internal/database"
	"github.com/tcmartins/payable/internal/installment"
	instStore "github.com/tcmartins/payable/internal/installment/store"
	"github.com/tcmartins/payable/internal/reconcile"
	aliasStore "github.com/tcmartins/payable/internal/reconcile/store"
	"github.com/tcmartins/payable/internal/schedule"
	"github.com/tcmartins/payable/internal/undo"
)

type model struct {
	instService      *installment.Service
	scheduleService  *schedule.Service
	reconcileService *reconcile.Service
	journal          *undo.Journal

	currentView View

	installmentsView view.InstallmentsModel
	obligationView   view.ObligationModel
	reconcileView    view.ReconcileModel
	undoView         view.UndoModel
}

type View int

const (
	ViewMenu         View = 0
	ViewInstallments View = 1
	ViewObligation   View = 2
	ViewReconcile    View = 3
	ViewUndo         View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := instStore.New(db)
	journal := undo.NewJournal(cfg.Undo.Capacity)
	journal.RegisterReverser(installment.Table, installment.NewReverser(store))

	instSvc := installment.NewService(store, journal)
	schedSvc := schedule.NewService(instSvc)
	reconSvc := reconcile.NewService(instSvc, aliasStore.New(db))

	return model{
		instService:      instSvc,
		scheduleService:  schedSvc,
		reconcileService: reconSvc,
		journal:          journal,
		currentView:      ViewMenu,
		installmentsView: view.NewInstallmentsModel(instSvc),
		obligationView:   view.NewObligationModel(schedSvc),
		reconcileView:    view.NewReconcileModel(reconSvc),
		undoView:         view.NewUndoModel(journal),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewInstallments
				m.installmentsView = view.NewInstallmentsModel(m.instService)

				return m, m.installmentsView.Init()
			case "2":
				m.currentView = ViewObligation
				m.obligationView = view.NewObligationModel(m.scheduleService)

				return m, m.obligationView.Init()
			case "3":
				m.currentView = ViewReconcile
				m.reconcileView = view.NewReconcileModel(m.reconcileService)

				return m, m.reconcileView.Init()
			case "4":
				m.currentView = ViewUndo
				m.undoView = view.NewUndoModel(m.journal)

				return m, m.undoView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewInstallments:
		var newModel tea.Model
		newModel, cmd = m.installmentsView.Update(msg)
		m.installmentsView = newModel.(view.InstallmentsModel)
	case ViewObligation:
		var newModel tea.Model
		newModel, cmd = m.obligationView.Update(msg)
		m.obligationView = newModel.(view.ObligationModel)
	case ViewReconcile:
		var newModel tea.Model
		newModel, cmd = m.reconcileView.Update(msg)
		m.reconcileView = newModel.(view.ReconcileModel)
	case ViewUndo:
		var newModel tea.Model
		newModel, cmd = m.undoView.Update(msg)
		m.undoView = newModel.(view.UndoModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Payable TUI\n\n" +
				"1. Installments\n" +
				"2. New Obligation\n" +
				"3. Reconcile Statement\n" +
				"4. Undo Journal\n\n" +
				"q. Quit",
		)
	case ViewInstallments:
		return m.installmentsView.View()
	case ViewObligation:
		return m.obligationView.View()
	case ViewReconcile:
		return m.reconcileView.View()
	case ViewUndo:
		return m.undoView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
