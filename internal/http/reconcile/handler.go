package reconcile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/reconcile"
	"github.com/tcmartins/payable/internal/statement"
)

type Handler struct {
	svc *reconcile.Service
}

func NewHandler(svc *reconcile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/statement", h.importStatement)
	r.Get("/{sessionID}", h.session)
	r.Post("/{sessionID}/candidates/{candidateID}/confirm", h.confirm)
	r.Post("/{sessionID}/candidates/{candidateID}/reject", h.reject)
}

type transactionDTO struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
}

type installmentDTO struct {
	ID           uuid.UUID          `json:"id"`
	Description  string             `json:"description"`
	Counterparty string             `json:"counterparty"`
	Amount       int64              `json:"amount"`
	DueDate      time.Time          `json:"due_date"`
	Status       installment.Status `json:"status"`
}

type candidateDTO struct {
	ID          uuid.UUID      `json:"id"`
	Transaction transactionDTO `json:"transaction"`
	Installment installmentDTO `json:"installment"`
	Score       float64        `json:"score"`
	Known       bool           `json:"known"`
}

type sessionResponse struct {
	SessionID  uuid.UUID      `json:"session_id"`
	Candidates []candidateDTO `json:"candidates"`
}

func (h *Handler) importStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	session, err := h.svc.Start(r.Context(), file)
	if err != nil {
		var perr *statement.ParseError
		if errors.As(err, &perr) {
			http.Error(w, perr.Error(), http.StatusBadRequest)
			return
		}

		if errors.Is(err, reconcile.ErrNoDebits) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	session, ok := h.findSession(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	session, ok := h.findSession(w, r)
	if !ok {
		return
	}

	candidateID, err := uuid.Parse(chi.URLParam(r, "candidateID"))
	if err != nil {
		http.Error(w, "invalid candidate id", http.StatusBadRequest)
		return
	}

	inst, err := session.Confirm(r.Context(), candidateID)
	if err != nil {
		if errors.Is(err, reconcile.ErrCandidateNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		// The candidate stays pending; the operator may retry.
		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, toInstallmentDTO(inst))
}

func (h *Handler) reject(w http.ResponseWriter, r *http.Request) {
	session, ok := h.findSession(w, r)
	if !ok {
		return
	}

	candidateID, err := uuid.Parse(chi.URLParam(r, "candidateID"))
	if err != nil {
		http.Error(w, "invalid candidate id", http.StatusBadRequest)
		return
	}

	if err := session.Reject(candidateID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) findSession(w http.ResponseWriter, r *http.Request) (*reconcile.Session, bool) {
	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return nil, false
	}

	session, err := h.svc.Session(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}

	return session, true
}

func toSessionResponse(session *reconcile.Session) sessionResponse {
	pending := session.Pending()

	resp := sessionResponse{
		SessionID:  session.ID,
		Candidates: make([]candidateDTO, 0, len(pending)),
	}

	for _, c := range pending {
		resp.Candidates = append(resp.Candidates, candidateDTO{
			ID: c.ID,
			Transaction: transactionDTO{
				Date:        c.Transaction.Date,
				Description: c.Transaction.Description,
				Amount:      c.Transaction.Amount,
			},
			Installment: toInstallmentDTO(c.Installment),
			Score:       c.Score,
			Known:       c.Known,
		})
	}

	return resp
}

func toInstallmentDTO(inst *installment.Installment) installmentDTO {
	return installmentDTO{
		ID:           inst.ID,
		Description:  inst.Description,
		Counterparty: inst.Counterparty,
		Amount:       inst.Amount,
		DueDate:      inst.DueDate,
		Status:       inst.Status,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
