package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/models"
	appredis "github.com/Aanshikesh/PennyPilot/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const accountViewKeyPrefix = "account:view:"

// accountCacheEntry is the internal Redis representation of an account.
// Unlike models.AccountView, it serialises UserID so ownership checks can be
// answered from the cache alone.
type accountCacheEntry struct {
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// AccountReadRepository handles all read operations for accounts.
// Redis is the primary read store; PostgreSQL is the fallback, warming the
// cache on every cold read.
type AccountReadRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[accountCacheEntry]
}

func NewAccountReadRepository(db *sql.DB, redisClient *goredis.Client) *AccountReadRepository {
	return &AccountReadRepository{
		db:    db,
		cache: appredis.NewViewCache[accountCacheEntry](redisClient, 0),
	}
}

func cacheEntryToView(e *accountCacheEntry) *models.AccountView {
	return &models.AccountView{
		AccountNumber: e.AccountNumber,
		UserID:        e.UserID,
		Name:          e.Name,
		AccountType:   e.AccountType,
		Balance:       e.Balance,
		Currency:      e.Currency,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// GetByAccountNumber returns an AccountView, trying Redis first then
// PostgreSQL. UserID is always populated so callers can enforce ownership.
func (r *AccountReadRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.AccountView, error) {
	cacheKey := accountViewKeyPrefix + accountNumber

	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		return cacheEntryToView(entry), nil
	}

	query := `
		SELECT account_number, user_id, name, account_type, balance, currency, created_at, updated_at
		FROM accounts
		WHERE account_number = $1 AND deleted_at IS NULL
	`
	var view models.AccountView
	pgErr := r.db.QueryRow(query, accountNumber).Scan(
		&view.AccountNumber, &view.UserID, &view.Name,
		&view.AccountType, &view.Balance, &view.Currency,
		&view.CreatedAt, &view.UpdatedAt,
	)
	if pgErr == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if pgErr != nil {
		return nil, fmt.Errorf("failed to get account: %w", pgErr)
	}

	// Warm the cache
	r.CacheAccountView(ctx, &view)
	return &view, nil
}

// ListByUserID returns all AccountViews for the given user from PostgreSQL.
func (r *AccountReadRepository) ListByUserID(ctx context.Context, userID string) ([]models.AccountView, error) {
	query := `
		SELECT account_number, user_id, name, account_type, balance, currency, created_at, updated_at
		FROM accounts
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var views []models.AccountView
	for rows.Next() {
		var view models.AccountView
		if err := rows.Scan(
			&view.AccountNumber, &view.UserID, &view.Name,
			&view.AccountType, &view.Balance, &view.Currency,
			&view.CreatedAt, &view.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		views = append(views, view)
	}
	return views, nil
}

// CacheAccountView stores or refreshes the Redis read model for an account.
func (r *AccountReadRepository) CacheAccountView(ctx context.Context, view *models.AccountView) {
	entry := &accountCacheEntry{
		AccountNumber: view.AccountNumber,
		UserID:        view.UserID,
		Name:          view.Name,
		AccountType:   view.AccountType,
		Balance:       view.Balance,
		Currency:      view.Currency,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
	}
	r.cache.Set(ctx, accountViewKeyPrefix+view.AccountNumber, entry)
}

// InvalidateAccountView drops the cached view for an account. Called after
// every balance adjustment; the next read re-projects from PostgreSQL.
func (r *AccountReadRepository) InvalidateAccountView(ctx context.Context, accountNumber string) {
	r.cache.Delete(ctx, accountViewKeyPrefix+accountNumber)
}
