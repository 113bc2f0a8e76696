package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/schedule"
)

type ObligationModel struct {
	CommonModel
	svc *schedule.Service

	form *huh.Form
	done bool

	created []*installment.Installment
	err     error

	// Form bindings
	mode         string
	description  string
	counterparty string
	totalValue   string
	perValue     string
	installments string
	startDate    string
	dayOfMonth   string
	endDate      string
	category     string
	entityID     string
}

func NewObligationModel(svc *schedule.Service) ObligationModel {
	m := ObligationModel{svc: svc, mode: string(schedule.ModeSingle)}
	m.form = m.buildForm()

	return m
}

func (m ObligationModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("mode").
				Title("Obligation Type").
				Options(
					huh.NewOption("Single payment", string(schedule.ModeSingle)),
					huh.NewOption("Fixed installments", string(schedule.ModeFixed)),
					huh.NewOption("Recurring monthly", string(schedule.ModeRecurring)),
				).
				Value(&m.mode),

			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&m.description).
				Validate(required("description")),

			huh.NewInput().
				Key("counterparty").
				Title("Counterparty").
				Value(&m.counterparty).
				Validate(required("counterparty")),

			huh.NewInput().
				Key("start_date").
				Title("First Due Date").
				Placeholder("YYYY-MM-DD").
				Value(&m.startDate).
				Validate(validDate),

			huh.NewInput().
				Key("entity_id").
				Title("Entity ID").
				Placeholder("UUID of the billed entity").
				Value(&m.entityID).
				Validate(func(s string) error {
					if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
						return errors.New("must be a UUID")
					}
					return nil
				}),
		),

		huh.NewGroup(
			huh.NewInput().
				Key("total_value").
				Title("Total Value").
				Placeholder("1500.00").
				Value(&m.totalValue),

			huh.NewInput().
				Key("per_value").
				Title("Per-Period Value (recurring)").
				Placeholder("leave empty for variable").
				Value(&m.perValue),

			huh.NewInput().
				Key("installments").
				Title("Installments (fixed)").
				Placeholder("1-120").
				Value(&m.installments),

			huh.NewInput().
				Key("day_of_month").
				Title("Due Day Override").
				Placeholder("optional, 1-31").
				Value(&m.dayOfMonth),

			huh.NewInput().
				Key("end_date").
				Title("End Date (recurring)").
				Placeholder("optional, YYYY-MM-DD").
				Value(&m.endDate),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(&m.category),
		),
	).WithWidth(50).WithShowHelp(false)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validDate(s string) error {
	if _, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err != nil {
		return errors.New("use YYYY-MM-DD")
	}
	return nil
}

func (m ObligationModel) Title() string { return "New Obligation" }

func (m ObligationModel) ShortHelp() string {
	if m.done {
		return "Enter/Esc: back"
	}

	return "Navigate form | Esc: back"
}

func (m ObligationModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ObligationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.done && msg.Type == tea.KeyEnter {
			return m, Back
		}

	case obligationCreatedMsg:
		m.done = true
		m.created = msg.created
		m.err = msg.err

		return m, nil
	}

	if m.done {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.createCmd()
	}

	return m, cmd
}

func (m ObligationModel) View() string {
	if m.done {
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Created %d installment(s):\n\n", len(m.created))

		for _, inst := range m.created {
			fmt.Fprintf(&b, "  %s  %s  %s\n",
				FormatDate(inst.DueDate), FormatAmount(inst.Amount), inst.Description)
		}

		return lipgloss.NewStyle().Padding(2).Render(b.String())
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
}

type obligationCreatedMsg struct {
	created []*installment.Installment
	err     error
}

func (m ObligationModel) createCmd() tea.Cmd {
	params, err := m.params()
	if err != nil {
		return func() tea.Msg { return obligationCreatedMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		created, err := m.svc.CreateObligation(ctx, params)

		return obligationCreatedMsg{created: created, err: err}
	}
}

func (m ObligationModel) params() (schedule.Params, error) {
	startDate, err := time.Parse("2006-01-02", strings.TrimSpace(m.startDate))
	if err != nil {
		return schedule.Params{}, fmt.Errorf("parsing first due date: %w", err)
	}

	entityID, err := uuid.Parse(strings.TrimSpace(m.entityID))
	if err != nil {
		return schedule.Params{}, fmt.Errorf("parsing entity id: %w", err)
	}

	p := schedule.Params{
		Mode:         schedule.Mode(m.mode),
		Description:  strings.TrimSpace(m.description),
		Counterparty: strings.TrimSpace(m.counterparty),
		StartDate:    startDate,
		Category:     strings.TrimSpace(m.category),
		EntityID:     entityID,
	}

	if v := strings.TrimSpace(m.totalValue); v != "" {
		cents, err := parseCents(v)
		if err != nil {
			return schedule.Params{}, fmt.Errorf("parsing total value: %w", err)
		}
		p.TotalValue = cents
	}

	if v := strings.TrimSpace(m.perValue); v != "" {
		cents, err := parseCents(v)
		if err != nil {
			return schedule.Params{}, fmt.Errorf("parsing per-period value: %w", err)
		}
		p.PerPeriodValue = &cents
	}

	if v := strings.TrimSpace(m.installments); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return schedule.Params{}, fmt.Errorf("parsing installment count: %w", err)
		}
		p.Installments = n
	}

	if v := strings.TrimSpace(m.dayOfMonth); v != "" {
		day, err := strconv.Atoi(v)
		if err != nil {
			return schedule.Params{}, fmt.Errorf("parsing due day: %w", err)
		}
		p.DayOfMonth = day
	}

	if v := strings.TrimSpace(m.endDate); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return schedule.Params{}, fmt.Errorf("parsing end date: %w", err)
		}
		p.EndDate = &end
	}

	return p, nil
}

func parseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, err
	}

	return d.Mul(decimal.NewFromInt(100)).IntPart(), nil
}
