// Package undo keeps a bounded, ordered log of compensating actions for
// recent row mutations. The journal lives in memory, scoped to one running
// process: it is not persisted and is lost on restart. Reversals can
// overwrite data changed by another session in the meantime; callers are
// expected to gate Undo behind an explicit operator confirmation.
package undo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrActionNotFound = errors.New("undo action not found")
	ErrNoReverser     = errors.New("no reverser registered for table")
)

// DefaultCapacity is the maximum number of actions the journal retains.
const DefaultCapacity = 10

// Kind classifies the original mutation an action compensates for.
type Kind string

const (
	KindInsert Kind = "insert"
	KindUpdate Kind = "update"
	KindDelete Kind = "delete"
)

// Action is one reversible mutation record. Payload holds the row snapshot
// the reversal needs: for deletes the full row as it was before deletion,
// for inserts the row as created (only its id is used). Prior is required
// for updates and holds the row as it was before the write.
type Action struct {
	ID          uuid.UUID
	Kind        Kind
	Table       string
	Payload     json.RawMessage
	Prior       json.RawMessage
	Description string
	RecordedAt  time.Time
}

// Reverser performs the single compensating write for one table.
type Reverser interface {
	// Reinsert restores a deleted row from its captured payload. The store
	// may regenerate ids and timestamps, so the restore is approximate.
	Reinsert(ctx context.Context, payload json.RawMessage) error
	// Overwrite writes back a prior payload in full, not a merge.
	Overwrite(ctx context.Context, payload json.RawMessage) error
	// Delete removes the row identified by the captured payload.
	Delete(ctx context.Context, payload json.RawMessage) error
}

// Journal is a bounded LIFO log of compensating actions. Newest first;
// recording past capacity evicts the oldest entry. Each action can be
// consumed at most once: a successful Undo removes it.
type Journal struct {
	mu        sync.Mutex
	capacity  int
	actions   []Action
	reversers map[string]Reverser
}

func NewJournal(capacity int) *Journal {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Journal{
		capacity:  capacity,
		reversers: make(map[string]Reverser),
	}
}

// RegisterReverser binds a table name to the component that knows how to
// revert writes against it.
func (j *Journal) RegisterReverser(table string, r Reverser) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.reversers[table] = r
}

// Record assigns the action an id and timestamp and prepends it to the
// journal, evicting the oldest entry when over capacity. It returns the
// stored action.
func (j *Journal) Record(a Action) Action {
	a.ID = uuid.New()
	a.RecordedAt = time.Now()

	j.mu.Lock()
	defer j.mu.Unlock()

	j.actions = append([]Action{a}, j.actions...)
	if len(j.actions) > j.capacity {
		j.actions = j.actions[:j.capacity]
	}

	return a
}

// List returns the journal contents, newest first.
func (j *Journal) List() []Action {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]Action, len(j.actions))
	copy(out, j.actions)

	return out
}

func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	return len(j.actions)
}

// Undo performs the compensating write for the identified action and
// removes it from the journal. If the write fails the action stays in the
// journal unmodified so the operator may retry. The lock is held across
// the write so an action cannot be consumed twice.
func (j *Journal) Undo(ctx context.Context, id uuid.UUID) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	idx := -1

	for i, a := range j.actions {
		if a.ID == id {
			idx = i
			break
		}
	}

	if idx < 0 {
		return ErrActionNotFound
	}

	a := j.actions[idx]

	rev, ok := j.reversers[a.Table]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoReverser, a.Table)
	}

	var err error

	switch a.Kind {
	case KindInsert:
		err = rev.Delete(ctx, a.Payload)
	case KindUpdate:
		err = rev.Overwrite(ctx, a.Prior)
	case KindDelete:
		err = rev.Reinsert(ctx, a.Payload)
	default:
		err = fmt.Errorf("unknown action kind %q", a.Kind)
	}

	if err != nil {
		return fmt.Errorf("reverting %s on %s: %w", a.Kind, a.Table, err)
	}

	j.actions = append(j.actions[:idx], j.actions[idx+1:]...)

	return nil
}
