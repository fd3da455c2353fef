package cqrs

// ---------- Account queries ----------

// GetAccountQuery fetches a single account by account number, subject to
// ownership check.
type GetAccountQuery struct {
	AccountNumber string
	UserID        string
}

// ListAccountsQuery fetches all accounts belonging to a user.
type ListAccountsQuery struct {
	UserID string
}

// ---------- Transaction queries ----------

// GetTransactionQuery fetches a single transaction, subject to ownership check.
type GetTransactionQuery struct {
	TransactionID string
	UserID        string
}

// ListTransactionsQuery fetches the caller's transactions, newest first.
// AccountNumber and Type are optional equality filters.
type ListTransactionsQuery struct {
	UserID        string
	AccountNumber string
	Type          string
}

// ---------- Dashboard queries ----------

// GetDashboardQuery fetches the cached dashboard projection for a user.
type GetDashboardQuery struct {
	UserID string
}
