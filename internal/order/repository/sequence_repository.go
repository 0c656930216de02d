package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Number sequence scopes.
const (
	ScopeOrder   = "order"
	ScopeInvoice = "invoice"
)

type MySQLSequenceRepository struct {
	db *sql.DB
}

func NewMySQLSequenceRepository(db *sql.DB) *MySQLSequenceRepository {
	return &MySQLSequenceRepository{db: db}
}

// NextNumber atomically claims the next value for (scope, year).
// LAST_INSERT_ID(expr) makes the claimed value readable on this
// connection without a second query, so concurrent claimers can never
// observe the same value.
func (r *MySQLSequenceRepository) NextNumber(ctx context.Context, tx *sql.Tx, scope string, year int) (int, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO number_sequences (scope, year, value)
		VALUES (?, ?, LAST_INSERT_ID(1))
		ON DUPLICATE KEY UPDATE value = LAST_INSERT_ID(value + 1)`,
		scope, year)
	if err != nil {
		return 0, fmt.Errorf("claiming sequence number: %w", err)
	}

	value, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading claimed sequence number: %w", err)
	}
	return int(value), nil
}

// FormatNumber renders a claimed value as the public document number,
// e.g. CMD-2025-00042.
func FormatNumber(scope string, year, value int) string {
	prefix := "CMD"
	if scope == ScopeInvoice {
		prefix = "FAC"
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, value)
}
