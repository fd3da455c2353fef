package command

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/events"
	"github.com/Aanshikesh/PennyPilot/internal/models"
	"github.com/Aanshikesh/PennyPilot/internal/utils"
)

// TransactionStore is the write-side persistence used by the command service.
// Both mutations pair the row write with the balance adjustment atomically.
type TransactionStore interface {
	GetOwned(id, userID string) (*models.Transaction, error)
	CreateWithBalanceDelta(t *models.Transaction, delta float64) error
	UpdateWithBalanceDelta(t *models.Transaction, delta float64) error
}

// AccountStore resolves accounts with an ownership filter.
type AccountStore interface {
	GetOwned(accountNumber, userID string) (*models.Account, error)
}

// TransactionViewCache keeps the transaction read model warm after writes.
type TransactionViewCache interface {
	CacheTransactionView(ctx context.Context, view *models.TransactionView)
}

// AccountViewInvalidator drops the cached account view after a balance change.
type AccountViewInvalidator interface {
	InvalidateAccountView(ctx context.Context, accountNumber string)
}

// DashboardInvalidator drops the cached dashboard view after a write.
type DashboardInvalidator interface {
	InvalidateView(ctx context.Context, userID string)
}

// Publisher emits domain events to the stream bus.
type Publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// TransactionCommandService creates and updates transactions. Every write
// adjusts the owning account's balance by the transaction's signed amount
// (income positive, expense negative) in the same atomic unit as the row
// write, then invalidates the two affected read models: the user's dashboard
// view and the account's view.
type TransactionCommandService struct {
	transactions TransactionStore
	accounts     AccountStore
	txViews      TransactionViewCache
	accountViews AccountViewInvalidator
	dashboards   DashboardInvalidator
	publisher    Publisher
}

func NewTransactionCommandService(
	transactions TransactionStore,
	accounts AccountStore,
	txViews TransactionViewCache,
	accountViews AccountViewInvalidator,
	dashboards DashboardInvalidator,
	publisher Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		transactions: transactions,
		accounts:     accounts,
		txViews:      txViews,
		accountViews: accountViews,
		dashboards:   dashboards,
		publisher:    publisher,
	}
}

func (s *TransactionCommandService) CreateTransaction(cmd cqrs.CreateTransactionCommand) (*models.Transaction, error) {
	if !cmd.Type.Valid() {
		return nil, fmt.Errorf("invalid transaction type %q", cmd.Type)
	}
	if cmd.Amount < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}

	if _, err := s.accounts.GetOwned(cmd.AccountNumber, cmd.UserID); err != nil {
		return nil, err
	}

	date := cmd.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	transaction := &models.Transaction{
		ID:            utils.GenerateID("txn"),
		AccountNumber: cmd.AccountNumber,
		UserID:        cmd.UserID,
		Amount:        cmd.Amount,
		Type:          cmd.Type,
		Date:          date,
		Description:   cmd.Description,
		Category:      cmd.Category,
		IsRecurring:   cmd.IsRecurring,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
	if cmd.IsRecurring {
		if !cmd.RecurringInterval.Valid() {
			return nil, fmt.Errorf("recurring interval is required for recurring transactions")
		}
		transaction.RecurringInterval = cmd.RecurringInterval
		next := models.NextRecurringDate(date, cmd.RecurringInterval)
		transaction.NextRecurringDate = &next
	}

	delta := models.SignedAmount(transaction.Type, transaction.Amount)
	if err := s.transactions.CreateWithBalanceDelta(transaction, delta); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.txViews.CacheTransactionView(ctx, txToView(transaction))
	s.accountViews.InvalidateAccountView(ctx, transaction.AccountNumber)
	s.dashboards.InvalidateView(ctx, transaction.UserID)

	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionCreated, events.TransactionCreatedEvent{
		TransactionID: transaction.ID,
		AccountNumber: transaction.AccountNumber,
		UserID:        transaction.UserID,
		Amount:        transaction.Amount,
		Type:          transaction.Type,
		BalanceDelta:  delta,
	}); err != nil {
		log.Printf("Failed to publish transaction.created event: %v", err)
	}
	return transaction, nil
}

// UpdateTransaction applies a partial update to an owned transaction. The
// balance delta is the net change between the stored and new signed amounts,
// so a type flip, an amount edit, or both are handled in one adjustment; an
// update that changes neither nets out to zero.
func (s *TransactionCommandService) UpdateTransaction(cmd cqrs.UpdateTransactionCommand) (*models.Transaction, error) {
	prior, err := s.transactions.GetOwned(cmd.TransactionID, cmd.UserID)
	if err != nil {
		return nil, err
	}

	next := *prior
	if cmd.Amount != nil {
		if *cmd.Amount < 0 {
			return nil, fmt.Errorf("amount must not be negative")
		}
		next.Amount = *cmd.Amount
	}
	if cmd.Type != nil {
		if !cmd.Type.Valid() {
			return nil, fmt.Errorf("invalid transaction type %q", *cmd.Type)
		}
		next.Type = *cmd.Type
	}
	if cmd.Date != nil {
		next.Date = *cmd.Date
	}
	if cmd.Description != nil {
		next.Description = *cmd.Description
	}
	if cmd.Category != nil {
		next.Category = *cmd.Category
	}
	if cmd.IsRecurring != nil {
		next.IsRecurring = *cmd.IsRecurring
	}
	if cmd.RecurringInterval != nil {
		next.RecurringInterval = *cmd.RecurringInterval
	}

	// Keep the recurrence fields mutually consistent: flag set means an
	// interval and a next date derived from the (possibly new) date; flag
	// clear means neither.
	if next.IsRecurring {
		if !next.RecurringInterval.Valid() {
			return nil, fmt.Errorf("recurring interval is required for recurring transactions")
		}
		nd := models.NextRecurringDate(next.Date, next.RecurringInterval)
		next.NextRecurringDate = &nd
	} else {
		next.RecurringInterval = ""
		next.NextRecurringDate = nil
	}
	next.UpdatedAt = time.Now().UTC()

	delta := models.SignedAmount(next.Type, next.Amount) - models.SignedAmount(prior.Type, prior.Amount)
	if err := s.transactions.UpdateWithBalanceDelta(&next, delta); err != nil {
		return nil, err
	}

	ctx := context.Background()
	s.txViews.CacheTransactionView(ctx, txToView(&next))
	s.accountViews.InvalidateAccountView(ctx, next.AccountNumber)
	s.dashboards.InvalidateView(ctx, next.UserID)

	if err := s.publisher.Publish(ctx, events.TransactionEventsStream, events.TransactionUpdated, events.TransactionUpdatedEvent{
		TransactionID: next.ID,
		AccountNumber: next.AccountNumber,
		UserID:        next.UserID,
		Amount:        next.Amount,
		Type:          next.Type,
		BalanceDelta:  delta,
	}); err != nil {
		log.Printf("Failed to publish transaction.updated event: %v", err)
	}
	return &next, nil
}

// txToView converts the write model to a read view model.
func txToView(t *models.Transaction) *models.TransactionView {
	return &models.TransactionView{
		ID:                t.ID,
		AccountNumber:     t.AccountNumber,
		UserID:            t.UserID,
		Amount:            t.Amount,
		Type:              t.Type,
		Date:              t.Date,
		Description:       t.Description,
		Category:          t.Category,
		IsRecurring:       t.IsRecurring,
		RecurringInterval: t.RecurringInterval,
		NextRecurringDate: t.NextRecurringDate,
		CreatedAt:         t.CreatedAt,
	}
}
