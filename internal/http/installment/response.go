package installment

import (
	"time"

	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
)

type installmentResponse struct {
	ID             uuid.UUID                  `json:"id"`
	Description    string                     `json:"description"`
	Counterparty   string                     `json:"counterparty"`
	Amount         int64                      `json:"amount"`
	DueDate        time.Time                  `json:"due_date"`
	PaymentDate    *time.Time                 `json:"payment_date,omitempty"`
	Status         installment.Status         `json:"status"`
	Category       string                     `json:"category"`
	PaymentMethod  string                     `json:"payment_method,omitempty"`
	Bank           string                     `json:"bank,omitempty"`
	DocumentNumber string                     `json:"document_number,omitempty"`
	EntityID       uuid.UUID                  `json:"entity_id"`
	AttachmentURL  string                     `json:"attachment_url,omitempty"`
	Notes          string                     `json:"notes,omitempty"`
	SeriesID       *uuid.UUID                 `json:"series_id,omitempty"`
	SeriesIndex    int                        `json:"series_index,omitempty"`
	SeriesCount    int                        `json:"series_count,omitempty"`
	SeriesTotal    int64                      `json:"series_total,omitempty"`
	Recurring      bool                       `json:"recurring,omitempty"`
	RecurrenceKind installment.RecurrenceKind `json:"recurrence_kind,omitempty"`
	FixedValue     bool                       `json:"fixed_value,omitempty"`
	CreatedAt      time.Time                  `json:"created_at"`
	UpdatedAt      *time.Time                 `json:"updated_at,omitempty"`
}

func toResponse(inst *installment.Installment) installmentResponse {
	return installmentResponse{
		ID:             inst.ID,
		Description:    inst.Description,
		Counterparty:   inst.Counterparty,
		Amount:         inst.Amount,
		DueDate:        inst.DueDate,
		PaymentDate:    inst.PaymentDate,
		Status:         inst.Status,
		Category:       inst.Category,
		PaymentMethod:  inst.PaymentMethod,
		Bank:           inst.Bank,
		DocumentNumber: inst.DocumentNumber,
		EntityID:       inst.EntityID,
		AttachmentURL:  inst.AttachmentURL,
		Notes:          inst.Notes,
		SeriesID:       inst.SeriesID,
		SeriesIndex:    inst.SeriesIndex,
		SeriesCount:    inst.SeriesCount,
		SeriesTotal:    inst.SeriesTotal,
		Recurring:      inst.Recurring,
		RecurrenceKind: inst.RecurrenceKind,
		FixedValue:     inst.FixedValue,
		CreatedAt:      inst.CreatedAt,
		UpdatedAt:      inst.UpdatedAt,
	}
}

func toResponseList(insts []*installment.Installment) []installmentResponse {
	resp := make([]installmentResponse, len(insts))
	for i, inst := range insts {
		resp[i] = toResponse(inst)
	}

	return resp
}
