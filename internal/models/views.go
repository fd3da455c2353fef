package models

import "time"

// AccountView is the read-optimised projection of an account.
// UserID is populated for ownership checks but never serialised to the API response.
type AccountView struct {
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"-"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// TransactionView is the read-optimised projection of a transaction.
type TransactionView struct {
	ID                string            `json:"id"`
	AccountNumber     string            `json:"accountNumber"`
	UserID            string            `json:"-"`
	Amount            float64           `json:"amount"`
	Type              TransactionType   `json:"type"`
	Date              time.Time         `json:"date"`
	Description       string            `json:"description,omitempty"`
	Category          string            `json:"category,omitempty"`
	IsRecurring       bool              `json:"isRecurring"`
	RecurringInterval RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time        `json:"nextRecurringDate,omitempty"`
	CreatedAt         time.Time         `json:"createdTimestamp"`
}

// DashboardView is the per-user dashboard projection: all accounts, the sum
// of their balances, and the most recent transactions across accounts. It is
// cached in Redis and invalidated on every transaction write.
type DashboardView struct {
	UserID             string            `json:"-"`
	TotalBalance       float64           `json:"totalBalance"`
	Accounts           []AccountView     `json:"accounts"`
	RecentTransactions []TransactionView `json:"recentTransactions"`
	GeneratedAt        time.Time         `json:"generatedTimestamp"`
}
