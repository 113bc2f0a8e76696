package undo

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/undo"
)

type Handler struct {
	journal *undo.Journal
}

func NewHandler(journal *undo.Journal) *Handler {
	return &Handler{journal: journal}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/{id}/revert", h.revert)
}

type actionResponse struct {
	ID          uuid.UUID `json:"id"`
	Kind        undo.Kind `json:"kind"`
	Table       string    `json:"table"`
	Description string    `json:"description"`
	RecordedAt  time.Time `json:"recorded_at"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actions := h.journal.List()

	resp := make([]actionResponse, 0, len(actions))
	for _, a := range actions {
		resp = append(resp, actionResponse{
			ID:          a.ID,
			Kind:        a.Kind,
			Table:       a.Table,
			Description: a.Description,
			RecordedAt:  a.RecordedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// revert performs the compensating write for one journal action. The
// deliberate POST is the API's confirmation gate; reversals can be
// destructive (reverting an insert deletes the row for good).
func (h *Handler) revert(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.journal.Undo(r.Context(), id); err != nil {
		if errors.Is(err, undo.ErrActionNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		// The target row is gone; the action stays in the journal for
		// manual resolution.
		if errors.Is(err, installment.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
