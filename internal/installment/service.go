package installment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/undo"
)

// Table is the store table name installments live in, used to key undo
// journal actions to their reverser.
const Table = "installments"

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=installment
type Repository interface {
	CreateInstallment(ctx context.Context, inst *Installment) error
	GetInstallment(ctx context.Context, id uuid.UUID) (*Installment, error)
	UpdateInstallment(ctx context.Context, inst *Installment) error
	DeleteInstallment(ctx context.Context, id uuid.UUID) error
	ListInstallments(ctx context.Context, filter ListFilter) ([]*Installment, error)

	BeginSeries(ctx context.Context) (SeriesTx, error)
}

// SeriesTx wraps a multi-row series insert in a single store transaction
// so a failure partway through persists nothing.
type SeriesTx interface {
	CreateInstallments(ctx context.Context, insts []*Installment) error
	Commit() error
	Rollback() error
}

// Journal receives a compensating action for every mutation the service
// performs. *undo.Journal satisfies it.
type Journal interface {
	Record(a undo.Action) undo.Action
}

type Service struct {
	repo    Repository
	journal Journal
	now     func() time.Time
}

func NewService(repo Repository, journal Journal) *Service {
	return &Service{
		repo:    repo,
		journal: journal,
		now:     time.Now,
	}
}

type CreateParams struct {
	Description    string
	Counterparty   string
	Amount         int64
	DueDate        time.Time
	Category       string
	PaymentMethod  string
	Bank           string
	DocumentNumber string
	EntityID       uuid.UUID
	AttachmentURL  string

	SeriesID       *uuid.UUID
	SeriesIndex    int
	SeriesCount    int
	SeriesTotal    int64
	Recurring      bool
	RecurrenceKind RecurrenceKind
	FixedValue     bool
}

type ListFilter struct {
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
	Category  *string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Installment, error) {
	inst := paramsToInstallment(params)
	inst.Status = DeriveStatus(inst.DueDate, nil, s.now())

	if err := s.repo.CreateInstallment(ctx, inst); err != nil {
		return nil, err
	}

	s.recordInsert(inst)

	return inst, nil
}

// CreateSeries persists all drafts of one obligation atomically. Either
// every installment of the series is stored or none is.
func (s *Service) CreateSeries(ctx context.Context, params []CreateParams) ([]*Installment, error) {
	if len(params) == 0 {
		return nil, nil
	}

	insts := make([]*Installment, len(params))
	for i, p := range params {
		insts[i] = paramsToInstallment(p)
		insts[i].Status = DeriveStatus(insts[i].DueDate, nil, s.now())
	}

	stx, err := s.repo.BeginSeries(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin series: %w", err)
	}
	defer stx.Rollback()

	if err := stx.CreateInstallments(ctx, insts); err != nil {
		return nil, fmt.Errorf("create installments: %w", err)
	}

	if err := stx.Commit(); err != nil {
		return nil, fmt.Errorf("commit series: %w", err)
	}

	for _, inst := range insts {
		s.recordInsert(inst)
	}

	return insts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Installment, error) {
	return s.repo.GetInstallment(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Installment, error) {
	return s.repo.ListInstallments(ctx, filter)
}

// ListUnpaid returns the open and overdue installments the matcher scores
// against. Status is re-derived on read so installments that went overdue
// since their last write rank correctly.
func (s *Service) ListUnpaid(ctx context.Context) ([]*Installment, error) {
	insts, err := s.repo.ListInstallments(ctx, ListFilter{})
	if err != nil {
		return nil, err
	}

	today := s.now()
	unpaid := make([]*Installment, 0, len(insts))

	for _, inst := range insts {
		status := DeriveStatus(inst.DueDate, inst.PaymentDate, today)
		if status == StatusPaid {
			continue
		}

		inst.Status = status
		unpaid = append(unpaid, inst)
	}

	return unpaid, nil
}

func (s *Service) Update(ctx context.Context, inst *Installment) error {
	prior, err := s.repo.GetInstallment(ctx, inst.ID)
	if err != nil {
		return err
	}

	inst.Status = DeriveStatus(inst.DueDate, inst.PaymentDate, s.now())

	if err := s.repo.UpdateInstallment(ctx, inst); err != nil {
		return err
	}

	s.recordUpdate(inst, prior, fmt.Sprintf("edited installment %q", inst.Description))

	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	prior, err := s.repo.GetInstallment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteInstallment(ctx, id); err != nil {
		return err
	}

	s.journal.Record(undo.Action{
		Kind:        undo.KindDelete,
		Table:       Table,
		Payload:     marshal(prior),
		Description: fmt.Sprintf("deleted installment %q due %s", prior.Description, prior.DueDate.Format(time.DateOnly)),
	})

	return nil
}

// RegisterPayment marks an installment paid on the given date. A non-empty
// note is appended to the installment's free-text annotation.
func (s *Service) RegisterPayment(ctx context.Context, id uuid.UUID, paymentDate time.Time, note string) (*Installment, error) {
	inst, err := s.repo.GetInstallment(ctx, id)
	if err != nil {
		return nil, err
	}

	prior := *inst

	inst.PaymentDate = &paymentDate
	inst.Status = StatusPaid

	if note != "" {
		if inst.Notes != "" {
			inst.Notes += "\n"
		}

		inst.Notes += note
	}

	if err := s.repo.UpdateInstallment(ctx, inst); err != nil {
		return nil, err
	}

	s.recordUpdate(inst, &prior, fmt.Sprintf("paid installment %q on %s", inst.Description, paymentDate.Format(time.DateOnly)))

	return inst, nil
}

// CancelPayment reverts a paid installment to open or overdue.
func (s *Service) CancelPayment(ctx context.Context, id uuid.UUID) (*Installment, error) {
	inst, err := s.repo.GetInstallment(ctx, id)
	if err != nil {
		return nil, err
	}

	prior := *inst

	inst.PaymentDate = nil
	inst.Status = DeriveStatus(inst.DueDate, nil, s.now())

	if err := s.repo.UpdateInstallment(ctx, inst); err != nil {
		return nil, err
	}

	s.recordUpdate(inst, &prior, fmt.Sprintf("cancelled payment of installment %q", inst.Description))

	return inst, nil
}

func (s *Service) recordInsert(inst *Installment) {
	s.journal.Record(undo.Action{
		Kind:        undo.KindInsert,
		Table:       Table,
		Payload:     marshal(inst),
		Description: fmt.Sprintf("created installment %q due %s", inst.Description, inst.DueDate.Format(time.DateOnly)),
	})
}

func (s *Service) recordUpdate(inst, prior *Installment, description string) {
	s.journal.Record(undo.Action{
		Kind:        undo.KindUpdate,
		Table:       Table,
		Payload:     marshal(inst),
		Prior:       marshal(prior),
		Description: description,
	})
}

func marshal(inst *Installment) json.RawMessage {
	b, err := json.Marshal(inst)
	if err != nil {
		// Installment has no unmarshalable fields; kept for completeness.
		return nil
	}

	return b
}

func paramsToInstallment(p CreateParams) *Installment {
	return &Installment{
		Description:    p.Description,
		Counterparty:   p.Counterparty,
		Amount:         p.Amount,
		DueDate:        p.DueDate,
		Category:       p.Category,
		PaymentMethod:  p.PaymentMethod,
		Bank:           p.Bank,
		DocumentNumber: p.DocumentNumber,
		EntityID:       p.EntityID,
		AttachmentURL:  p.AttachmentURL,
		SeriesID:       p.SeriesID,
		SeriesIndex:    p.SeriesIndex,
		SeriesCount:    p.SeriesCount,
		SeriesTotal:    p.SeriesTotal,
		Recurring:      p.Recurring,
		RecurrenceKind: p.RecurrenceKind,
		FixedValue:     p.FixedValue,
	}
}
