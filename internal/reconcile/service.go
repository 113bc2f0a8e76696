// Package reconcile matches imported bank statement debits against open
// installments and applies operator-confirmed payments.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
	"github.com/tcmartins/payable/internal/statement"
)

var (
	ErrNoDebits          = errors.New("statement yields no debit transactions")
	ErrSessionNotFound   = errors.New("reconciliation session not found")
	ErrCandidateNotFound = errors.New("match candidate not found")
)

// Installments is the slice of the installment service the matcher needs.
type Installments interface {
	ListUnpaid(ctx context.Context) ([]*installment.Installment, error)
	RegisterPayment(ctx context.Context, id uuid.UUID, paymentDate time.Time, note string) (*installment.Installment, error)
}

// AliasStore remembers which statement descriptions paid which
// counterparties. Lookups annotate candidates; confirmations learn.
type AliasStore interface {
	FindCounterparty(ctx context.Context, description string) (string, error)
	LearnAlias(ctx context.Context, description, counterparty string) error
}

// Candidate pairs one statement debit with one open or overdue
// installment. It exists only for the duration of an import session.
type Candidate struct {
	ID          uuid.UUID
	Transaction statement.Transaction
	Installment *installment.Installment
	Score       float64

	// Known marks that this statement description previously paid this
	// counterparty. It does not affect the score or ranking.
	Known bool
}

type Service struct {
	parser       *statement.Parser
	installments Installments
	aliases      AliasStore

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewService(installments Installments, aliases AliasStore) *Service {
	return &Service{
		parser:       statement.NewParser(),
		installments: installments,
		aliases:      aliases,
		sessions:     make(map[uuid.UUID]*Session),
	}
}

// Start parses a statement, scores every debit against every unpaid
// installment and returns a session of ranked pending candidates for
// operator review.
func (s *Service) Start(ctx context.Context, r io.Reader) (*Session, error) {
	txs, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	if len(txs) == 0 {
		return nil, ErrNoDebits
	}

	insts, err := s.installments.ListUnpaid(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing unpaid installments: %w", err)
	}

	var candidates []Candidate

	for _, tx := range txs {
		for _, inst := range insts {
			score := Score(tx, inst)
			if score <= ScoreThreshold {
				continue
			}

			candidates = append(candidates, Candidate{
				ID:          uuid.New(),
				Transaction: tx,
				Installment: inst,
				Score:       score,
				Known:       s.knownAlias(ctx, tx.Description, inst.Counterparty),
			})
		}
	}

	// Descending by score; ties keep encounter order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	session := &Session{
		ID:           uuid.New(),
		installments: s.installments,
		aliases:      s.aliases,
		pending:      candidates,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session, nil
}

func (s *Service) Session(id uuid.UUID) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (s *Service) knownAlias(ctx context.Context, description, counterparty string) bool {
	if s.aliases == nil {
		return false
	}

	found, err := s.aliases.FindCounterparty(ctx, description)
	if err != nil {
		return false
	}

	return found != "" && found == counterparty
}

// Session holds the pending candidates of one statement import.
type Session struct {
	ID uuid.UUID

	installments Installments
	aliases      AliasStore

	mu      sync.Mutex
	pending []Candidate
}

// Pending returns the remaining candidates, ranked.
func (s *Session) Pending() []Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Candidate, len(s.pending))
	copy(out, s.pending)

	return out
}

// Confirm applies a candidate: the installment's payment date becomes the
// transaction date, its status paid, and a note referencing the statement
// entry is appended. The write is journaled as an update with the prior
// payload captured first. If the store rejects the write the candidate
// stays pending so the operator may retry.
func (s *Session) Confirm(ctx context.Context, candidateID uuid.UUID) (*installment.Installment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.find(candidateID)
	if idx < 0 {
		return nil, ErrCandidateNotFound
	}

	c := s.pending[idx]
	note := fmt.Sprintf("reconciled against statement entry %q", c.Transaction.Description)

	inst, err := s.installments.RegisterPayment(ctx, c.Installment.ID, c.Transaction.Date, note)
	if err != nil {
		return nil, err
	}

	if s.aliases != nil {
		if err := s.aliases.LearnAlias(ctx, c.Transaction.Description, inst.Counterparty); err != nil {
			slog.Warn("failed to learn counterparty alias", "error", err)
		}
	}

	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)

	return inst, nil
}

// Reject drops a candidate with no persistence effect.
func (s *Session) Reject(candidateID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.find(candidateID)
	if idx < 0 {
		return ErrCandidateNotFound
	}

	s.pending = append(s.pending[:idx], s.pending[idx+1:]...)

	return nil
}

func (s *Session) find(candidateID uuid.UUID) int {
	for i, c := range s.pending {
		if c.ID == candidateID {
			return i
		}
	}

	return -1
}
