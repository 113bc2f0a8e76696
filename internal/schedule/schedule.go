// Package schedule turns a declared payable obligation into concrete
// installment drafts. Generation is pure; persistence goes through the
// installment service.
package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tcmartins/payable/internal/installment"
)

// Mode selects how an obligation expands into installments.
type Mode string

const (
	// ModeSingle produces exactly one installment on the start date.
	ModeSingle Mode = "single"
	// ModeFixed splits a total value evenly across N monthly installments.
	ModeFixed Mode = "fixed"
	// ModeRecurring produces one installment per month until the end date,
	// or for a default horizon when no end date is given.
	ModeRecurring Mode = "recurring"
)

const (
	MinInstallments = 1
	MaxInstallments = 120

	// DefaultHorizon bounds recurring generation when no end date is
	// given, so an open-ended obligation never expands without limit.
	DefaultHorizon = 36
)

// ValidationError reports bad obligation input caught before any
// persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid obligation: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Params describes one declared payable intent.
type Params struct {
	Description    string
	Counterparty   string
	Category       string
	EntityID       uuid.UUID
	PaymentMethod  string
	Bank           string
	DocumentNumber string

	Mode      Mode
	StartDate time.Time

	// TotalValue is the obligation value in cents: the full amount in
	// single mode, the value split across periods in fixed mode.
	TotalValue int64

	// Installments is N for fixed mode.
	Installments int

	// EndDate stops recurring generation; nil means the default horizon.
	EndDate *time.Time

	// PerPeriodValue, when set in recurring mode, is replicated to every
	// draft. Nil leaves the amounts at zero for manual entry later.
	PerPeriodValue *int64

	// DayOfMonth forces each due date to that day of its target month,
	// clamped to the last day of shorter months. Zero inherits the start
	// date's day.
	DayOfMonth int
}

// Generate expands the obligation into installment drafts ready for
// persistence. It has no side effects; callers persist the drafts and
// notify the undo journal of the resulting inserts.
func Generate(p Params) ([]installment.CreateParams, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	switch p.Mode {
	case ModeSingle:
		return []installment.CreateParams{p.draft(p.StartDate)}, nil
	case ModeFixed:
		return p.fixedDrafts(), nil
	case ModeRecurring:
		return p.recurringDrafts(), nil
	}

	return nil, invalid("mode", fmt.Sprintf("unknown mode %q", p.Mode))
}

func (p Params) validate() error {
	if p.StartDate.IsZero() {
		return invalid("start date", "is required")
	}

	if p.Counterparty == "" {
		return invalid("counterparty", "is required")
	}

	if p.Category == "" {
		return invalid("category", "is required")
	}

	if p.EntityID == uuid.Nil {
		return invalid("entity", "link is required")
	}

	switch p.Mode {
	case ModeSingle:
		if p.TotalValue <= 0 {
			return invalid("value", "must be positive")
		}
	case ModeFixed:
		if p.TotalValue <= 0 {
			return invalid("total value", "must be positive")
		}

		if p.Installments < MinInstallments || p.Installments > MaxInstallments {
			return invalid("installment count", fmt.Sprintf("must be between %d and %d", MinInstallments, MaxInstallments))
		}

		if p.TotalValue < int64(p.Installments) {
			return invalid("total value", "too small to split across installments")
		}
	case ModeRecurring:
		if p.PerPeriodValue != nil && *p.PerPeriodValue <= 0 {
			return invalid("per-period value", "must be positive")
		}
	}

	if p.DayOfMonth < 0 || p.DayOfMonth > 31 {
		return invalid("day of month", "must be between 1 and 31")
	}

	return nil
}

func (p Params) fixedDrafts() []installment.CreateParams {
	n := p.Installments
	seriesID := uuid.New()

	// Even cent split; whatever rounding leaves over lands on the last
	// installment so the series always sums to the declared total.
	per := decimal.NewFromInt(p.TotalValue).
		Div(decimal.NewFromInt(int64(n))).
		Floor().
		IntPart()
	last := p.TotalValue - per*int64(n-1)

	drafts := make([]installment.CreateParams, n)

	for i := range n {
		d := p.draft(p.dueOn(i))
		d.Amount = per

		if i == n-1 {
			d.Amount = last
		}

		d.SeriesID = &seriesID
		d.SeriesIndex = i + 1
		d.SeriesCount = n
		d.SeriesTotal = p.TotalValue
		d.FixedValue = true
		drafts[i] = d
	}

	return drafts
}

func (p Params) recurringDrafts() []installment.CreateParams {
	seriesID := uuid.New()

	var amount int64
	if p.PerPeriodValue != nil {
		amount = *p.PerPeriodValue
	}

	var drafts []installment.CreateParams

	// An explicit end date wins; otherwise stop at the default horizon.
	// MaxInstallments caps even dated generation so a far-future end date
	// cannot expand into thousands of rows.
	for i := 0; i < MaxInstallments; i++ {
		due := p.dueOn(i)

		if p.EndDate != nil {
			if due.After(*p.EndDate) {
				break
			}
		} else if i >= DefaultHorizon {
			break
		}

		d := p.draft(due)
		d.Amount = amount
		d.SeriesID = &seriesID
		d.SeriesIndex = i + 1
		d.Recurring = true
		d.RecurrenceKind = installment.RecurrenceMonthly
		d.FixedValue = p.PerPeriodValue != nil
		drafts = append(drafts, d)
	}

	for i := range drafts {
		drafts[i].SeriesCount = len(drafts)
	}

	return drafts
}

func (p Params) draft(due time.Time) installment.CreateParams {
	return installment.CreateParams{
		Description:    p.Description,
		Counterparty:   p.Counterparty,
		Amount:         p.TotalValue,
		DueDate:        due,
		Category:       p.Category,
		PaymentMethod:  p.PaymentMethod,
		Bank:           p.Bank,
		DocumentNumber: p.DocumentNumber,
		EntityID:       p.EntityID,
	}
}

// dueOn computes the due date monthsAhead months after the start date.
// The target day is the day-of-month override when set, otherwise the
// start date's day, clamped to the last day of the target month (day 31
// in February yields Feb 28 or 29).
func (p Params) dueOn(monthsAhead int) time.Time {
	day := p.StartDate.Day()
	if p.DayOfMonth > 0 {
		day = p.DayOfMonth
	}

	year := p.StartDate.Year()
	month := p.StartDate.Month() + time.Month(monthsAhead)

	if last := daysInMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, 0, 0, 0, 0, p.StartDate.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
