package obligation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/schedule"
)

type Handler struct {
	svc *schedule.Service
}

func NewHandler(svc *schedule.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Post("/preview", h.preview)
}

type createObligationRequest struct {
	Description    string        `json:"description"`
	Counterparty   string        `json:"counterparty"`
	Category       string        `json:"category"`
	EntityID       uuid.UUID     `json:"entity_id"`
	PaymentMethod  string        `json:"payment_method"`
	Bank           string        `json:"bank"`
	DocumentNumber string        `json:"document_number"`
	Mode           schedule.Mode `json:"mode"`
	StartDate      time.Time     `json:"start_date"`
	TotalValue     int64         `json:"total_value"`
	Installments   int           `json:"installments"`
	EndDate        *time.Time    `json:"end_date,omitempty"`
	PerPeriodValue *int64        `json:"per_period_value,omitempty"`
	DayOfMonth     int           `json:"day_of_month"`
}

func (r createObligationRequest) toParams() schedule.Params {
	return schedule.Params{
		Description:    r.Description,
		Counterparty:   r.Counterparty,
		Category:       r.Category,
		EntityID:       r.EntityID,
		PaymentMethod:  r.PaymentMethod,
		Bank:           r.Bank,
		DocumentNumber: r.DocumentNumber,
		Mode:           r.Mode,
		StartDate:      r.StartDate,
		TotalValue:     r.TotalValue,
		Installments:   r.Installments,
		EndDate:        r.EndDate,
		PerPeriodValue: r.PerPeriodValue,
		DayOfMonth:     r.DayOfMonth,
	}
}

type createdResponse struct {
	Created      int                  `json:"created"`
	Installments []installmentSummary `json:"installments"`
}

type installmentSummary struct {
	ID          uuid.UUID          `json:"id,omitempty"`
	Description string             `json:"description"`
	Amount      int64              `json:"amount"`
	DueDate     time.Time          `json:"due_date"`
	Status      installment.Status `json:"status,omitempty"`
	SeriesIndex int                `json:"series_index,omitempty"`
	SeriesCount int                `json:"series_count,omitempty"`
}

// create expands an obligation into installments and persists the series.
func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	insts, err := h.svc.CreateObligation(r.Context(), req.toParams())
	if err != nil {
		var verr *schedule.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := createdResponse{Created: len(insts)}
	for _, inst := range insts {
		resp.Installments = append(resp.Installments, installmentSummary{
			ID:          inst.ID,
			Description: inst.Description,
			Amount:      inst.Amount,
			DueDate:     inst.DueDate,
			Status:      inst.Status,
			SeriesIndex: inst.SeriesIndex,
			SeriesCount: inst.SeriesCount,
		})
	}

	writeJSON(w, http.StatusCreated, resp)
}

// preview expands an obligation into drafts without persisting anything,
// so the operator can inspect due dates and amounts first.
func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	var req createObligationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	drafts, err := schedule.Generate(req.toParams())
	if err != nil {
		var verr *schedule.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	resp := createdResponse{Created: len(drafts)}
	for _, d := range drafts {
		resp.Installments = append(resp.Installments, installmentSummary{
			Description: d.Description,
			Amount:      d.Amount,
			DueDate:     d.DueDate,
			SeriesIndex: d.SeriesIndex,
			SeriesCount: d.SeriesCount,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
