package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	appredis "github.com/Aanshikesh/PennyPilot/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const transactionViewKeyPrefix = "transaction:view:"

// transactionCacheEntry serialises UserID alongside the view so ownership
// checks can be answered from the cache alone.
type transactionCacheEntry struct {
	models.TransactionView
	OwnerID string `json:"ownerId"`
}

// TransactionReadRepository handles all read operations for transactions.
// Point lookups try Redis first with a PostgreSQL fallback; listings always
// go to PostgreSQL.
type TransactionReadRepository struct {
	db    *sql.DB
	cache *appredis.ViewCache[transactionCacheEntry]
}

func NewTransactionReadRepository(db *sql.DB, redisClient *goredis.Client) *TransactionReadRepository {
	return &TransactionReadRepository{
		db:    db,
		cache: appredis.NewViewCache[transactionCacheEntry](redisClient, 0),
	}
}

const transactionViewColumns = `id, account_number, user_id, amount, type, date,
	   description, category, is_recurring, recurring_interval, next_recurring_date, created_at`

func scanTransactionView(scan func(dest ...any) error) (*models.TransactionView, error) {
	var view models.TransactionView
	var description, category, interval sql.NullString
	var nextDate sql.NullTime

	if err := scan(
		&view.ID, &view.AccountNumber, &view.UserID, &view.Amount, &view.Type, &view.Date,
		&description, &category, &view.IsRecurring, &interval, &nextDate,
		&view.CreatedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		view.Description = description.String
	}
	if category.Valid {
		view.Category = category.String
	}
	if interval.Valid {
		view.RecurringInterval = models.RecurringInterval(interval.String)
	}
	if nextDate.Valid {
		d := nextDate.Time
		view.NextRecurringDate = &d
	}
	return &view, nil
}

// GetOwned returns a TransactionView by attempting Redis first, then
// PostgreSQL. A transaction owned by another user is reported as not found.
func (r *TransactionReadRepository) GetOwned(ctx context.Context, id, userID string) (*models.TransactionView, error) {
	cacheKey := transactionViewKeyPrefix + id
	if entry, ok := r.cache.Get(ctx, cacheKey); ok {
		if entry.OwnerID != userID {
			return nil, models.ErrTransactionNotFound
		}
		view := entry.TransactionView
		view.UserID = entry.OwnerID
		return &view, nil
	}

	query := `
		SELECT ` + transactionViewColumns + `
		FROM transactions
		WHERE id = $1 AND user_id = $2
	`
	row := r.db.QueryRow(query, id, userID)
	view, err := scanTransactionView(row.Scan)
	if err == sql.ErrNoRows {
		return nil, models.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	// Warm the cache
	r.CacheTransactionView(ctx, view)
	return view, nil
}

// List returns the caller's transactions newest first, optionally narrowed by
// equality filters on account number and type.
func (r *TransactionReadRepository) List(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionViewColumns + ` FROM transactions WHERE user_id = $1`)
	args := []any{q.UserID}
	if q.AccountNumber != "" {
		args = append(args, q.AccountNumber)
		fmt.Fprintf(&sb, " AND account_number = $%d", len(args))
	}
	if q.Type != "" {
		args = append(args, q.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}
	sb.WriteString(" ORDER BY date DESC")

	rows, err := r.db.Query(sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		view, err := scanTransactionView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, *view)
	}
	return views, nil
}

// ListRecentByUserID returns the user's most recent transactions across all
// accounts, for the dashboard projection.
func (r *TransactionReadRepository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]models.TransactionView, error) {
	query := `
		SELECT ` + transactionViewColumns + `
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	defer rows.Close()

	var views []models.TransactionView
	for rows.Next() {
		view, err := scanTransactionView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		views = append(views, *view)
	}
	return views, nil
}

// CacheTransactionView stores the read model for a transaction in Redis.
// Called by the command service immediately after a successful write.
func (r *TransactionReadRepository) CacheTransactionView(ctx context.Context, view *models.TransactionView) {
	entry := &transactionCacheEntry{TransactionView: *view, OwnerID: view.UserID}
	r.cache.Set(ctx, transactionViewKeyPrefix+view.ID, entry)
}
