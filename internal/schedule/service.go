package schedule

import (
	"context"

	"github.com/tcmartins/payable/internal/installment"
)

// Installments is the slice of the installment service the scheduler
// persists through.
type Installments interface {
	CreateSeries(ctx context.Context, params []installment.CreateParams) ([]*installment.Installment, error)
}

type Service struct {
	installments Installments
}

func NewService(installments Installments) *Service {
	return &Service{installments: installments}
}

// CreateObligation validates the obligation, expands it into drafts and
// persists them in one store transaction. The installment service records
// the resulting inserts in the undo journal.
func (s *Service) CreateObligation(ctx context.Context, p Params) ([]*installment.Installment, error) {
	drafts, err := Generate(p)
	if err != nil {
		return nil, err
	}

	return s.installments.CreateSeries(ctx, drafts)
}
