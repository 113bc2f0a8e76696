package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Store persists counterparty aliases: statement description patterns the
// operator has previously confirmed against a counterparty.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindCounterparty(ctx context.Context, description string) (string, error) {
	query := `
		SELECT counterparty
		FROM counterparty_aliases
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var counterparty string

	err := s.db.QueryRowContext(ctx, query, description).Scan(&counterparty)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}

		return "", fmt.Errorf("finding counterparty alias: %w", err)
	}

	return counterparty, nil
}

func (s *Store) LearnAlias(ctx context.Context, description, counterparty string) error {
	query := `
		INSERT INTO counterparty_aliases (pattern, counterparty, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (pattern) DO UPDATE SET counterparty = EXCLUDED.counterparty
	`

	_, err := s.db.ExecContext(ctx, query, description, counterparty)
	if err != nil {
		return fmt.Errorf("learning counterparty alias: %w", err)
	}

	return nil
}
