package models

import "time"

// TransactionType classifies a transaction's effect on the account balance.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// RecurringInterval is the cadence at which a recurring transaction repeats.
type RecurringInterval string

const (
	IntervalDaily   RecurringInterval = "DAILY"
	IntervalWeekly  RecurringInterval = "WEEKLY"
	IntervalMonthly RecurringInterval = "MONTHLY"
	IntervalYearly  RecurringInterval = "YEARLY"
)

// Valid reports whether i is a known recurring interval.
func (i RecurringInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// SignedAmount expresses amount with the sign implied by the transaction
// type: positive for income, negative for expense. It is the unit of every
// balance adjustment — the create-path delta is SignedAmount(new), the
// update-path delta is SignedAmount(new) - SignedAmount(old).
func SignedAmount(t TransactionType, amount float64) float64 {
	if t == TypeExpense {
		return -amount
	}
	return amount
}

// NextRecurringDate computes the next occurrence of a recurring transaction.
// Month and year steps use time.Time.AddDate, which normalizes overflowing
// dates forward (Jan 31 + 1 month = Mar 2 or Mar 3) rather than clamping to
// month end. Callers must only pass a valid interval.
func NextRecurringDate(date time.Time, interval RecurringInterval) time.Time {
	switch interval {
	case IntervalDaily:
		return date.AddDate(0, 0, 1)
	case IntervalWeekly:
		return date.AddDate(0, 0, 7)
	case IntervalMonthly:
		return date.AddDate(0, 1, 0)
	case IntervalYearly:
		return date.AddDate(1, 0, 0)
	}
	return date
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}

type Account struct {
	AccountNumber string    `json:"accountNumber"`
	UserID        string    `json:"-"`
	Name          string    `json:"name"`
	AccountType   string    `json:"accountType"`
	Balance       float64   `json:"balance"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdTimestamp"`
	UpdatedAt     time.Time `json:"updatedTimestamp"`
}

// Transaction is the write model for a single income or expense entry.
// NextRecurringDate is present iff IsRecurring is set, and always equals
// NextRecurringDate(Date, RecurringInterval).
type Transaction struct {
	ID                string            `json:"id"`
	AccountNumber     string            `json:"accountNumber"`
	UserID            string            `json:"userId"`
	Amount            float64           `json:"amount"`
	Type              TransactionType   `json:"type"`
	Date              time.Time         `json:"date"`
	Description       string            `json:"description,omitempty"`
	Category          string            `json:"category,omitempty"`
	IsRecurring       bool              `json:"isRecurring"`
	RecurringInterval RecurringInterval `json:"recurringInterval,omitempty"`
	NextRecurringDate *time.Time        `json:"nextRecurringDate,omitempty"`
	CreatedAt         time.Time         `json:"createdTimestamp"`
	UpdatedAt         time.Time         `json:"updatedTimestamp"`
}
