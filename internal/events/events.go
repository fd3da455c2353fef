package events

import (
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// Event types
const (
	UserCreated = "user.created"

	AccountCreated = "account.created"

	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	AccountEventsStream     = "account.events"
	TransactionEventsStream = "transaction.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type UserCreatedEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type AccountCreatedEvent struct {
	AccountNumber string `json:"accountNumber"`
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	AccountType   string `json:"accountType"`
}

// TransactionCreatedEvent is published after a transaction row and its
// balance adjustment have committed. BalanceDelta is the signed amount
// already applied to the account.
type TransactionCreatedEvent struct {
	TransactionID string                 `json:"transactionId"`
	AccountNumber string                 `json:"accountNumber"`
	UserID        string                 `json:"userId"`
	Amount        float64                `json:"amount"`
	Type          models.TransactionType `json:"type"`
	BalanceDelta  float64                `json:"balanceDelta"`
}

// TransactionUpdatedEvent mirrors TransactionCreatedEvent for updates;
// BalanceDelta is the net change between the prior and new signed amounts.
type TransactionUpdatedEvent struct {
	TransactionID string                 `json:"transactionId"`
	AccountNumber string                 `json:"accountNumber"`
	UserID        string                 `json:"userId"`
	Amount        float64                `json:"amount"`
	Type          models.TransactionType `json:"type"`
	BalanceDelta  float64                `json:"balanceDelta"`
}
