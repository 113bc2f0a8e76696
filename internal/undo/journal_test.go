package undo_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcmartins/payable/internal/undo"
)

// Fake reverser
type fakeReverser struct {
	reinserted []json.RawMessage
	overwrote  []json.RawMessage
	deleted    []json.RawMessage

	err error
}

func (f *fakeReverser) Reinsert(_ context.Context, payload json.RawMessage) error {
	if f.err != nil {
		return f.err
	}

	f.reinserted = append(f.reinserted, payload)

	return nil
}

func (f *fakeReverser) Overwrite(_ context.Context, payload json.RawMessage) error {
	if f.err != nil {
		return f.err
	}

	f.overwrote = append(f.overwrote, payload)

	return nil
}

func (f *fakeReverser) Delete(_ context.Context, payload json.RawMessage) error {
	if f.err != nil {
		return f.err
	}

	f.deleted = append(f.deleted, payload)

	return nil
}

func TestJournal_RecordAndList(t *testing.T) {
	j := undo.NewJournal(undo.DefaultCapacity)

	first := j.Record(undo.Action{Kind: undo.KindInsert, Table: "installments", Description: "first"})
	second := j.Record(undo.Action{Kind: undo.KindDelete, Table: "installments", Description: "second"})

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.RecordedAt.IsZero())

	got := j.List()
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "second", got[0].Description)
	assert.Equal(t, "first", got[1].Description)
}

func TestJournal_CapacityEviction(t *testing.T) {
	j := undo.NewJournal(10)

	for i := range 13 {
		j.Record(undo.Action{
			Kind:        undo.KindInsert,
			Table:       "installments",
			Description: fmt.Sprintf("action %d", i),
		})
	}

	got := j.List()
	require.Len(t, got, 10)

	// The three oldest were evicted.
	assert.Equal(t, "action 12", got[0].Description)
	assert.Equal(t, "action 3", got[9].Description)
}

func TestJournal_UndoInsert(t *testing.T) {
	j := undo.NewJournal(0)
	rev := &fakeReverser{}
	j.RegisterReverser("installments", rev)

	payload := json.RawMessage(`{"id":"abc"}`)
	a := j.Record(undo.Action{Kind: undo.KindInsert, Table: "installments", Payload: payload})

	require.NoError(t, j.Undo(context.Background(), a.ID))

	require.Len(t, rev.deleted, 1)
	assert.JSONEq(t, string(payload), string(rev.deleted[0]))
	assert.Zero(t, j.Len())
}

func TestJournal_UndoUpdateUsesPrior(t *testing.T) {
	j := undo.NewJournal(0)
	rev := &fakeReverser{}
	j.RegisterReverser("installments", rev)

	prior := json.RawMessage(`{"amount":100}`)
	after := json.RawMessage(`{"amount":200}`)

	a := j.Record(undo.Action{
		Kind:    undo.KindUpdate,
		Table:   "installments",
		Payload: after,
		Prior:   prior,
	})

	require.NoError(t, j.Undo(context.Background(), a.ID))

	require.Len(t, rev.overwrote, 1)
	assert.JSONEq(t, string(prior), string(rev.overwrote[0]))
	assert.Empty(t, rev.deleted)
}

func TestJournal_UndoDeleteReinserts(t *testing.T) {
	j := undo.NewJournal(0)
	rev := &fakeReverser{}
	j.RegisterReverser("installments", rev)

	payload := json.RawMessage(`{"id":"abc","amount":100}`)
	a := j.Record(undo.Action{Kind: undo.KindDelete, Table: "installments", Payload: payload})

	require.NoError(t, j.Undo(context.Background(), a.ID))

	require.Len(t, rev.reinserted, 1)
	assert.JSONEq(t, string(payload), string(rev.reinserted[0]))
}

func TestJournal_UndoAtMostOnce(t *testing.T) {
	j := undo.NewJournal(0)
	rev := &fakeReverser{}
	j.RegisterReverser("installments", rev)

	a := j.Record(undo.Action{Kind: undo.KindInsert, Table: "installments"})

	require.NoError(t, j.Undo(context.Background(), a.ID))
	assert.ErrorIs(t, j.Undo(context.Background(), a.ID), undo.ErrActionNotFound)
	assert.Len(t, rev.deleted, 1)
}

func TestJournal_UndoFailureKeepsAction(t *testing.T) {
	j := undo.NewJournal(0)
	rev := &fakeReverser{err: errors.New("db down")}
	j.RegisterReverser("installments", rev)

	a := j.Record(undo.Action{Kind: undo.KindInsert, Table: "installments"})

	err := j.Undo(context.Background(), a.ID)
	assert.Error(t, err)
	assert.Equal(t, 1, j.Len())

	// Once the store recovers the action is still there to retry.
	rev.err = nil
	require.NoError(t, j.Undo(context.Background(), a.ID))
	assert.Zero(t, j.Len())
}

func TestJournal_UndoUnknownTable(t *testing.T) {
	j := undo.NewJournal(0)

	a := j.Record(undo.Action{Kind: undo.KindInsert, Table: "entities"})

	assert.ErrorIs(t, j.Undo(context.Background(), a.ID), undo.ErrNoReverser)
	assert.Equal(t, 1, j.Len())
}

func TestJournal_UndoUnknownAction(t *testing.T) {
	j := undo.NewJournal(0)

	assert.ErrorIs(t, j.Undo(context.Background(), uuid.New()), undo.ErrActionNotFound)
}
