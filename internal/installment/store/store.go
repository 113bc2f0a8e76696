package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/tcmartins/payable/internal/installment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectInstallmentColumns = `
	id, description, counterparty, amount, due_date, payment_date, status,
	category, payment_method, bank, document_number, entity_id, attachment_url,
	notes, series_id, series_index, series_count, series_total,
	recurring, recurrence_kind, fixed_value, created_at, updated_at
`

func scanInstallment(s scanner) (*installment.Installment, error) {
	var inst installment.Installment

	var (
		statusStr      string
		recurrenceKind sql.NullString
		paymentDate    sql.NullTime
		notes          sql.NullString
		seriesIndex    sql.NullInt64
		seriesCount    sql.NullInt64
		seriesTotal    sql.NullInt64
	)

	if err := s.Scan(
		&inst.ID, &inst.Description, &inst.Counterparty, &inst.Amount,
		&inst.DueDate, &paymentDate, &statusStr,
		&inst.Category, &inst.PaymentMethod, &inst.Bank, &inst.DocumentNumber,
		&inst.EntityID, &inst.AttachmentURL, &notes,
		&inst.SeriesID, &seriesIndex, &seriesCount, &seriesTotal,
		&inst.Recurring, &recurrenceKind, &inst.FixedValue,
		&inst.CreatedAt, &inst.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inst.Status = installment.Status(statusStr)
	inst.RecurrenceKind = installment.RecurrenceKind(recurrenceKind.String)
	inst.Notes = notes.String
	inst.SeriesIndex = int(seriesIndex.Int64)
	inst.SeriesCount = int(seriesCount.Int64)
	inst.SeriesTotal = seriesTotal.Int64

	if paymentDate.Valid {
		inst.PaymentDate = &paymentDate.Time
	}

	return &inst, nil
}

const insertInstallmentQuery = `
	INSERT INTO installments (
		description, counterparty, amount, due_date, payment_date, status,
		category, payment_method, bank, document_number, entity_id, attachment_url,
		notes, series_id, series_index, series_count, series_total,
		recurring, recurrence_kind, fixed_value, created_at, updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

func insertArgs(inst *installment.Installment) []any {
	return []any{
		inst.Description,
		inst.Counterparty,
		inst.Amount,
		inst.DueDate,
		inst.PaymentDate,
		inst.Status,
		inst.Category,
		inst.PaymentMethod,
		inst.Bank,
		inst.DocumentNumber,
		inst.EntityID,
		inst.AttachmentURL,
		inst.Notes,
		inst.SeriesID,
		nullableInt(inst.SeriesIndex),
		nullableInt(inst.SeriesCount),
		nullableInt64(inst.SeriesTotal),
		inst.Recurring,
		nullableString(string(inst.RecurrenceKind)),
		inst.FixedValue,
	}
}

func (s *Store) CreateInstallment(ctx context.Context, inst *installment.Installment) error {
	err := s.db.QueryRowContext(ctx, insertInstallmentQuery, insertArgs(inst)...).
		Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating installment: %w", err)
	}

	return nil
}

func (s *Store) GetInstallment(ctx context.Context, id uuid.UUID) (*installment.Installment, error) {
	query := `SELECT ` + selectInstallmentColumns + ` FROM installments WHERE id = $1`

	inst, err := scanInstallment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, installment.ErrNotFound
		}

		return nil, fmt.Errorf("getting installment: %w", err)
	}

	return inst, nil
}

func (s *Store) ListInstallments(ctx context.Context, filter installment.ListFilter) ([]*installment.Installment, error) {
	query := `SELECT ` + selectInstallmentColumns + ` FROM installments WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND due_date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND due_date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIdx)

		args = append(args, *filter.Category)
		argIdx++
	}

	query += " ORDER BY due_date ASC, created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing installments: %w", err)
	}
	defer rows.Close()

	var insts []*installment.Installment

	for rows.Next() {
		inst, err := scanInstallment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning installment: %w", err)
		}

		insts = append(insts, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating installment rows: %w", err)
	}

	return insts, nil
}

func (s *Store) UpdateInstallment(ctx context.Context, inst *installment.Installment) error {
	query := `
		UPDATE installments
		SET description = $1, counterparty = $2, amount = $3, due_date = $4,
			payment_date = $5, status = $6, category = $7, payment_method = $8,
			bank = $9, document_number = $10, entity_id = $11, attachment_url = $12,
			notes = $13, updated_at = NOW()
		WHERE id = $14
	`

	res, err := s.db.ExecContext(ctx, query,
		inst.Description,
		inst.Counterparty,
		inst.Amount,
		inst.DueDate,
		inst.PaymentDate,
		inst.Status,
		inst.Category,
		inst.PaymentMethod,
		inst.Bank,
		inst.DocumentNumber,
		inst.EntityID,
		inst.AttachmentURL,
		inst.Notes,
		inst.ID,
	)
	if err != nil {
		return fmt.Errorf("updating installment: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return installment.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteInstallment(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM installments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting installment: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return installment.ErrNotFound
	}

	return nil
}

type seriesTx struct {
	tx *sql.Tx
}

func (s *Store) BeginSeries(ctx context.Context) (installment.SeriesTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning series tx: %w", err)
	}

	return &seriesTx{tx: tx}, nil
}

func (stx *seriesTx) Commit() error   { return stx.tx.Commit() }
func (stx *seriesTx) Rollback() error { return stx.tx.Rollback() }

func (stx *seriesTx) CreateInstallments(ctx context.Context, insts []*installment.Installment) error {
	for _, inst := range insts {
		err := stx.tx.QueryRowContext(ctx, insertInstallmentQuery, insertArgs(inst)...).
			Scan(&inst.ID, &inst.CreatedAt, &inst.UpdatedAt)
		if err != nil {
			return fmt.Errorf("creating installment %d/%d: %w", inst.SeriesIndex, inst.SeriesCount, err)
		}
	}

	return nil
}

func nullableInt(n int) any {
	if n == 0 {
		return nil
	}

	return n
}

func nullableInt64(n int64) any {
	if n == 0 {
		return nil
	}

	return n
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}
