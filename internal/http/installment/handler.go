package installment

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
)

type Handler struct {
	svc *installment.Service
}

func NewHandler(svc *installment.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/payment", h.registerPayment)
	r.Delete("/{id}/payment", h.cancelPayment)
}

type createInstallmentRequest struct {
	Description    string    `json:"description"`
	Counterparty   string    `json:"counterparty"`
	Amount         int64     `json:"amount"`
	DueDate        time.Time `json:"due_date"`
	Category       string    `json:"category"`
	PaymentMethod  string    `json:"payment_method"`
	Bank           string    `json:"bank"`
	DocumentNumber string    `json:"document_number"`
	EntityID       uuid.UUID `json:"entity_id"`
	AttachmentURL  string    `json:"attachment_url"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inst, err := h.svc.Create(r.Context(), installment.CreateParams{
		Description:    req.Description,
		Counterparty:   req.Counterparty,
		Amount:         req.Amount,
		DueDate:        req.DueDate,
		Category:       req.Category,
		PaymentMethod:  req.PaymentMethod,
		Bank:           req.Bank,
		DocumentNumber: req.DocumentNumber,
		EntityID:       req.EntityID,
		AttachmentURL:  req.AttachmentURL,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(inst))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := installment.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		filter.Status = new(installment.Status(s))
	}

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.StartDate = new(t)
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			filter.EndDate = new(t)
		}
	}

	if s := r.URL.Query().Get("category"); s != "" {
		filter.Category = new(s)
	}

	insts, err := h.svc.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(insts))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inst, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, installment.ErrNotFound) {
			http.Error(w, "installment not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(inst))
}

type updateInstallmentRequest struct {
	Description    *string    `json:"description,omitempty"`
	Counterparty   *string    `json:"counterparty,omitempty"`
	Amount         *int64     `json:"amount,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	Category       *string    `json:"category,omitempty"`
	PaymentMethod  *string    `json:"payment_method,omitempty"`
	Bank           *string    `json:"bank,omitempty"`
	DocumentNumber *string    `json:"document_number,omitempty"`
	AttachmentURL  *string    `json:"attachment_url,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req updateInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	inst, err := h.svc.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, installment.ErrNotFound) {
			http.Error(w, "installment not found", http.StatusNotFound)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	applyUpdate(inst, req)

	if err := h.svc.Update(r.Context(), inst); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(inst))
}

func applyUpdate(inst *installment.Installment, req updateInstallmentRequest) {
	if req.Description != nil {
		inst.Description = *req.Description
	}

	if req.Counterparty != nil {
		inst.Counterparty = *req.Counterparty
	}

	if req.Amount != nil {
		inst.Amount = *req.Amount
	}

	if req.DueDate != nil {
		inst.DueDate = *req.DueDate
	}

	if req.Category != nil {
		inst.Category = *req.Category
	}

	if req.PaymentMethod != nil {
		inst.PaymentMethod = *req.PaymentMethod
	}

	if req.Bank != nil {
		inst.Bank = *req.Bank
	}

	if req.DocumentNumber != nil {
		inst.DocumentNumber = *req.DocumentNumber
	}

	if req.AttachmentURL != nil {
		inst.AttachmentURL = *req.AttachmentURL
	}

	if req.Notes != nil {
		inst.Notes = *req.Notes
	}
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, installment.ErrNotFound) {
			http.Error(w, "installment not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type registerPaymentRequest struct {
	PaymentDate time.Time `json:"payment_date"`
	Note        string    `json:"note"`
}

func (h *Handler) registerPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req registerPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.PaymentDate.IsZero() {
		http.Error(w, "payment_date is required", http.StatusBadRequest)
		return
	}

	inst, err := h.svc.RegisterPayment(r.Context(), id, req.PaymentDate, req.Note)
	if err != nil {
		if errors.Is(err, installment.ErrNotFound) {
			http.Error(w, "installment not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(inst))
}

func (h *Handler) cancelPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	inst, err := h.svc.CancelPayment(r.Context(), id)
	if err != nil {
		if errors.Is(err, installment.ErrNotFound) {
			http.Error(w, "installment not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toResponse(inst))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
