package cqrs

import (
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/models"
)

type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

// RefreshTokenCommand reissues a token for an already-authenticated user.
type RefreshTokenCommand struct {
	UserID string
}

type CreateAccountCommand struct {
	UserID      string
	Name        string
	AccountType string
	Currency    string
}

// CreateTransactionCommand carries the validated input for a transaction
// create. RecurringInterval is meaningful only when IsRecurring is set.
type CreateTransactionCommand struct {
	UserID            string
	AccountNumber     string
	Amount            float64
	Type              models.TransactionType
	Date              time.Time
	Description       string
	Category          string
	IsRecurring       bool
	RecurringInterval models.RecurringInterval
}

// UpdateTransactionCommand carries a partial update; nil fields are left
// unchanged. The balance delta is computed against the stored transaction.
type UpdateTransactionCommand struct {
	TransactionID     string
	UserID            string
	Amount            *float64
	Type              *models.TransactionType
	Date              *time.Time
	Description       *string
	Category          *string
	IsRecurring       *bool
	RecurringInterval *models.RecurringInterval
}
