package installment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Reverser adapts the installment Repository to the undo journal's
// compensating-write interface. Register it for Table on the journal.
type Reverser struct {
	repo Repository
}

func NewReverser(repo Repository) *Reverser {
	return &Reverser{repo: repo}
}

// Reinsert restores a deleted installment from its captured snapshot.
// The store assigns a fresh id and timestamps, so the restored row is an
// approximation of the original.
func (r *Reverser) Reinsert(ctx context.Context, payload json.RawMessage) error {
	inst, err := unmarshalInstallment(payload)
	if err != nil {
		return err
	}

	inst.ID = uuid.Nil

	return r.repo.CreateInstallment(ctx, inst)
}

// Overwrite writes the captured prior snapshot back in full.
func (r *Reverser) Overwrite(ctx context.Context, payload json.RawMessage) error {
	inst, err := unmarshalInstallment(payload)
	if err != nil {
		return err
	}

	return r.repo.UpdateInstallment(ctx, inst)
}

// Delete removes the installment identified by the captured snapshot.
func (r *Reverser) Delete(ctx context.Context, payload json.RawMessage) error {
	inst, err := unmarshalInstallment(payload)
	if err != nil {
		return err
	}

	return r.repo.DeleteInstallment(ctx, inst.ID)
}

func unmarshalInstallment(payload json.RawMessage) (*Installment, error) {
	var inst Installment
	if err := json.Unmarshal(payload, &inst); err != nil {
		return nil, fmt.Errorf("decoding installment snapshot: %w", err)
	}

	return &inst, nil
}
