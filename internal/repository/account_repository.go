package repository

import (
	"database/sql"
	"fmt"

	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// AccountWriteRepository handles all state-mutating operations for accounts.
// It operates exclusively against the PostgreSQL write store (source of truth).
// Balances are never written here directly — they change only as part of the
// transaction write repository's atomic adjustments.
type AccountWriteRepository struct {
	db *sql.DB
}

func NewAccountWriteRepository(db *sql.DB) *AccountWriteRepository {
	return &AccountWriteRepository{db: db}
}

func (r *AccountWriteRepository) Create(account *models.Account) error {
	query := `
		INSERT INTO accounts (account_number, user_id, name, account_type, balance, currency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		account.AccountNumber, account.UserID, account.Name,
		account.AccountType, account.Balance, account.Currency,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetOwned fetches an account by number with an ownership filter. An account
// owned by someone else is indistinguishable from a missing one.
func (r *AccountWriteRepository) GetOwned(accountNumber, userID string) (*models.Account, error) {
	query := `
		SELECT account_number, user_id, name, account_type, balance, currency, created_at, updated_at
		FROM accounts
		WHERE account_number = $1 AND user_id = $2 AND deleted_at IS NULL
	`
	var account models.Account
	err := r.db.QueryRow(query, accountNumber, userID).Scan(
		&account.AccountNumber, &account.UserID, &account.Name,
		&account.AccountType, &account.Balance, &account.Currency,
		&account.CreatedAt, &account.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
