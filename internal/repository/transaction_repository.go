package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions. Every mutation pairs the transaction-row write with a
// relative balance increment on the owning account inside one database
// transaction, so either both effects commit or neither does. The increment
// is expressed as `balance = balance + $delta` rather than writing a value
// read earlier, so concurrent adjustments commute and no update is lost.
type TransactionWriteRepository struct {
	db *sql.DB
}

func NewTransactionWriteRepository(db *sql.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

// CreateWithBalanceDelta inserts the transaction row and applies delta to the
// owning account's balance atomically. Returns models.ErrAccountNotFound if
// the account is missing or not owned by the transaction's user.
func (r *TransactionWriteRepository) CreateWithBalanceDelta(t *models.Transaction, delta float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	insert := `
		INSERT INTO transactions (id, account_number, user_id, amount, type, date,
			description, category, is_recurring, recurring_interval, next_recurring_date,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = tx.Exec(insert,
		t.ID, t.AccountNumber, t.UserID, t.Amount, string(t.Type), t.Date,
		nullString(t.Description), nullString(t.Category),
		t.IsRecurring, nullString(string(t.RecurringInterval)), nullTime(t.NextRecurringDate),
		t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := applyBalanceDelta(tx, t.AccountNumber, t.UserID, delta); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateWithBalanceDelta rewrites the transaction row and applies the net
// balance change atomically. Returns models.ErrTransactionNotFound if the row
// is missing or not owned by the given user.
func (r *TransactionWriteRepository) UpdateWithBalanceDelta(t *models.Transaction, delta float64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	update := `
		UPDATE transactions
		SET amount = $3, type = $4, date = $5, description = $6, category = $7,
			is_recurring = $8, recurring_interval = $9, next_recurring_date = $10,
			updated_at = $11
		WHERE id = $1 AND user_id = $2
	`
	result, err := tx.Exec(update,
		t.ID, t.UserID, t.Amount, string(t.Type), t.Date,
		nullString(t.Description), nullString(t.Category),
		t.IsRecurring, nullString(string(t.RecurringInterval)), nullTime(t.NextRecurringDate),
		t.UpdatedAt,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		tx.Rollback()
		return models.ErrTransactionNotFound
	}

	if err := applyBalanceDelta(tx, t.AccountNumber, t.UserID, delta); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetOwned fetches the full write model of a transaction, with an ownership
// filter. Used to load prior state before an update.
func (r *TransactionWriteRepository) GetOwned(id, userID string) (*models.Transaction, error) {
	query := `
		SELECT id, account_number, user_id, amount, type, date,
			   description, category, is_recurring, recurring_interval, next_recurring_date,
			   created_at, updated_at
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	var t models.Transaction
	var description, category, interval sql.NullString
	var nextDate sql.NullTime

	err := r.db.QueryRow(query, id, userID).Scan(
		&t.ID, &t.AccountNumber, &t.UserID, &t.Amount, &t.Type, &t.Date,
		&description, &category, &t.IsRecurring, &interval, &nextDate,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if description.Valid {
		t.Description = description.String
	}
	if category.Valid {
		t.Category = category.String
	}
	if interval.Valid {
		t.RecurringInterval = models.RecurringInterval(interval.String)
	}
	if nextDate.Valid {
		d := nextDate.Time
		t.NextRecurringDate = &d
	}
	return &t, nil
}

// applyBalanceDelta issues the relative increment on the owning account
// inside the caller's database transaction.
func applyBalanceDelta(tx *sql.Tx, accountNumber, userID string, delta float64) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE account_number = $1 AND user_id = $3 AND deleted_at IS NULL
	`
	result, err := tx.Exec(query, accountNumber, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
