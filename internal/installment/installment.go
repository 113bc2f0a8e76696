package installment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("installment not found")

// Status represents the lifecycle state of an installment.
// It is derivable from the due and payment dates; writes always
// recompute it so the persisted value never disagrees.
type Status string

const (
	StatusOpen    Status = "open"
	StatusOverdue Status = "overdue"
	StatusPaid    Status = "paid"
)

// RecurrenceKind identifies how a recurring series advances.
// Only monthly recurrence is supported.
type RecurrenceKind string

const RecurrenceMonthly RecurrenceKind = "monthly"

// Installment is a single payable obligation due on a specific date.
// Series fields are set when the installment was generated as part of
// a fixed-count or recurring obligation.
type Installment struct {
	ID             uuid.UUID
	Description    string
	Counterparty   string
	Amount         int64 // Amount in cents
	DueDate        time.Time
	PaymentDate    *time.Time
	Status         Status
	Category       string
	PaymentMethod  string
	Bank           string
	DocumentNumber string
	EntityID       uuid.UUID // linked supplier/customer/employee
	AttachmentURL  string
	Notes          string

	SeriesID       *uuid.UUID
	SeriesIndex    int
	SeriesCount    int
	SeriesTotal    int64 // cents, total of the parent obligation
	Recurring      bool
	RecurrenceKind RecurrenceKind
	FixedValue     bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// DeriveStatus computes the status an installment must carry given its
// due date and payment date as of today.
func DeriveStatus(dueDate time.Time, paymentDate *time.Time, today time.Time) Status {
	if paymentDate != nil {
		return StatusPaid
	}

	if dueDate.Before(truncateDay(today)) {
		return StatusOverdue
	}

	return StatusOpen
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
