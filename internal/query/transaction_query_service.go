package query

import (
	"context"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// TransactionReader is the read-side store for transaction views.
type TransactionReader interface {
	GetOwned(ctx context.Context, id, userID string) (*models.TransactionView, error)
	List(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error)
}

// TransactionQueryService serves transaction read models. Ownership is
// enforced by the reader: other users' transactions come back as not found.
type TransactionQueryService struct {
	transactions TransactionReader
}

func NewTransactionQueryService(transactions TransactionReader) *TransactionQueryService {
	return &TransactionQueryService{transactions: transactions}
}

func (s *TransactionQueryService) GetTransaction(ctx context.Context, q cqrs.GetTransactionQuery) (*models.TransactionView, error) {
	return s.transactions.GetOwned(ctx, q.TransactionID, q.UserID)
}

func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	return s.transactions.List(ctx, q)
}
