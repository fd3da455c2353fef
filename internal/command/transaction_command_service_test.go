package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/models"
)

// ---- fakes ----

type fakeTransactionStore struct {
	stored *models.Transaction

	created      *models.Transaction
	updated      *models.Transaction
	appliedDelta float64
	createCalls  int
	updateCalls  int
	createErr    error
}

func (f *fakeTransactionStore) GetOwned(id, userID string) (*models.Transaction, error) {
	if f.stored == nil || f.stored.ID != id || f.stored.UserID != userID {
		return nil, models.ErrTransactionNotFound
	}
	copy := *f.stored
	return &copy, nil
}

func (f *fakeTransactionStore) CreateWithBalanceDelta(t *models.Transaction, delta float64) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	f.created = t
	f.appliedDelta = delta
	return nil
}

func (f *fakeTransactionStore) UpdateWithBalanceDelta(t *models.Transaction, delta float64) error {
	f.updateCalls++
	f.updated = t
	f.appliedDelta = delta
	return nil
}

type fakeAccountStore struct {
	account *models.Account
}

func (f *fakeAccountStore) GetOwned(accountNumber, userID string) (*models.Account, error) {
	if f.account == nil || f.account.AccountNumber != accountNumber || f.account.UserID != userID {
		return nil, models.ErrAccountNotFound
	}
	return f.account, nil
}

type fakeViews struct {
	cachedTx             *models.TransactionView
	invalidatedAccounts  []string
	invalidatedDashUsers []string
}

func (f *fakeViews) CacheTransactionView(ctx context.Context, v *models.TransactionView) {
	f.cachedTx = v
}
func (f *fakeViews) InvalidateAccountView(ctx context.Context, accountNumber string) {
	f.invalidatedAccounts = append(f.invalidatedAccounts, accountNumber)
}
func (f *fakeViews) InvalidateView(ctx context.Context, userID string) {
	f.invalidatedDashUsers = append(f.invalidatedDashUsers, userID)
}

type fakePublisher struct {
	types []string
}

func (f *fakePublisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	f.types = append(f.types, eventType)
	return nil
}

func newService(txs *fakeTransactionStore, accounts *fakeAccountStore) (*TransactionCommandService, *fakeViews, *fakePublisher) {
	views := &fakeViews{}
	pub := &fakePublisher{}
	return NewTransactionCommandService(txs, accounts, views, views, views, pub), views, pub
}

var testAccount = &models.Account{
	AccountNumber: "02123456",
	UserID:        "usr-001",
	Name:          "Everyday",
	Balance:       100.00,
	Currency:      "USD",
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ---- create ----

func TestCreateTransactionAppliesSignedDelta(t *testing.T) {
	tests := []struct {
		name      string
		txType    models.TransactionType
		amount    float64
		wantDelta float64
	}{
		{"expense decrements balance", models.TypeExpense, 30.0, -30.0},
		{"income increments balance", models.TypeIncome, 50.0, 50.0},
		{"zero amount is a no-op delta", models.TypeExpense, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := &fakeTransactionStore{}
			svc, views, pub := newService(txs, &fakeAccountStore{account: testAccount})

			created, err := svc.CreateTransaction(cqrs.CreateTransactionCommand{
				UserID:        "usr-001",
				AccountNumber: "02123456",
				Amount:        tt.amount,
				Type:          tt.txType,
				Date:          day(2024, time.March, 1),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if txs.appliedDelta != tt.wantDelta {
				t.Errorf("applied delta = %v, want %v", txs.appliedDelta, tt.wantDelta)
			}
			if created.NextRecurringDate != nil {
				t.Error("non-recurring transaction must not carry a next recurring date")
			}
			if len(views.invalidatedAccounts) != 1 || views.invalidatedAccounts[0] != "02123456" {
				t.Errorf("account view invalidations = %v", views.invalidatedAccounts)
			}
			if len(views.invalidatedDashUsers) != 1 || views.invalidatedDashUsers[0] != "usr-001" {
				t.Errorf("dashboard invalidations = %v", views.invalidatedDashUsers)
			}
			if len(pub.types) != 1 || pub.types[0] != "transaction.created" {
				t.Errorf("published events = %v", pub.types)
			}
		})
	}
}

func TestCreateTransactionRecurrence(t *testing.T) {
	txs := &fakeTransactionStore{}
	svc, _, _ := newService(txs, &fakeAccountStore{account: testAccount})

	created, err := svc.CreateTransaction(cqrs.CreateTransactionCommand{
		UserID:            "usr-001",
		AccountNumber:     "02123456",
		Amount:            20,
		Type:              models.TypeExpense,
		Date:              day(2024, time.January, 15),
		IsRecurring:       true,
		RecurringInterval: models.IntervalMonthly,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.NextRecurringDate == nil {
		t.Fatal("expected next recurring date to be set")
	}
	if want := day(2024, time.February, 15); !created.NextRecurringDate.Equal(want) {
		t.Errorf("next recurring date = %s, want %s", created.NextRecurringDate, want)
	}
}

func TestCreateTransactionRejectsRecurringWithoutInterval(t *testing.T) {
	txs := &fakeTransactionStore{}
	svc, _, _ := newService(txs, &fakeAccountStore{account: testAccount})

	_, err := svc.CreateTransaction(cqrs.CreateTransactionCommand{
		UserID:        "usr-001",
		AccountNumber: "02123456",
		Amount:        20,
		Type:          models.TypeExpense,
		IsRecurring:   true,
	})
	if err == nil {
		t.Fatal("expected error for recurring transaction without interval")
	}
	if txs.createCalls != 0 {
		t.Error("store must not be touched when validation fails")
	}
}

func TestCreateTransactionAccountNotOwned(t *testing.T) {
	txs := &fakeTransactionStore{}
	svc, views, pub := newService(txs, &fakeAccountStore{account: testAccount})

	_, err := svc.CreateTransaction(cqrs.CreateTransactionCommand{
		UserID:        "usr-999", // not the owner
		AccountNumber: "02123456",
		Amount:        10,
		Type:          models.TypeIncome,
	})
	if !errors.Is(err, models.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if txs.createCalls != 0 {
		t.Error("no row write may happen for an unowned account")
	}
	if len(views.invalidatedAccounts) != 0 || len(views.invalidatedDashUsers) != 0 || len(pub.types) != 0 {
		t.Error("failed create must have no side effects")
	}
}

// ---- update ----

func storedExpense() *models.Transaction {
	return &models.Transaction{
		ID:            "txn-001",
		AccountNumber: "02123456",
		UserID:        "usr-001",
		Amount:        30,
		Type:          models.TypeExpense,
		Date:          day(2024, time.March, 1),
	}
}

func TestUpdateTransactionDelta(t *testing.T) {
	amount := func(v float64) *float64 { return &v }
	txType := func(v models.TransactionType) *models.TransactionType { return &v }

	tests := []struct {
		name      string
		cmd       cqrs.UpdateTransactionCommand
		wantDelta float64
	}{
		{
			// EXPENSE 30 -> INCOME 50: 50 - (-30) = 80.
			name: "type flip and amount change",
			cmd: cqrs.UpdateTransactionCommand{
				TransactionID: "txn-001", UserID: "usr-001",
				Amount: amount(50), Type: txType(models.TypeIncome),
			},
			wantDelta: 80,
		},
		{
			name: "amount change only",
			cmd: cqrs.UpdateTransactionCommand{
				TransactionID: "txn-001", UserID: "usr-001",
				Amount: amount(45),
			},
			wantDelta: -15, // -45 - (-30)
		},
		{
			name: "type flip only",
			cmd: cqrs.UpdateTransactionCommand{
				TransactionID: "txn-001", UserID: "usr-001",
				Type: txType(models.TypeIncome),
			},
			wantDelta: 60, // 30 - (-30)
		},
		{
			name: "unchanged amount and type nets zero",
			cmd: cqrs.UpdateTransactionCommand{
				TransactionID: "txn-001", UserID: "usr-001",
				Amount: amount(30), Type: txType(models.TypeExpense),
			},
			wantDelta: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txs := &fakeTransactionStore{stored: storedExpense()}
			svc, _, _ := newService(txs, &fakeAccountStore{account: testAccount})

			if _, err := svc.UpdateTransaction(tt.cmd); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if txs.appliedDelta != tt.wantDelta {
				t.Errorf("applied delta = %v, want %v", txs.appliedDelta, tt.wantDelta)
			}
			if txs.updateCalls != 1 {
				t.Errorf("update calls = %d, want 1", txs.updateCalls)
			}
		})
	}
}

func TestUpdateTransactionRecurrenceConsistency(t *testing.T) {
	recurring := func(v bool) *bool { return &v }
	interval := func(v models.RecurringInterval) *models.RecurringInterval { return &v }

	// Turning recurrence on derives the next date from the stored date.
	txs := &fakeTransactionStore{stored: storedExpense()}
	svc, _, _ := newService(txs, &fakeAccountStore{account: testAccount})
	updated, err := svc.UpdateTransaction(cqrs.UpdateTransactionCommand{
		TransactionID: "txn-001", UserID: "usr-001",
		IsRecurring: recurring(true), RecurringInterval: interval(models.IntervalWeekly),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.NextRecurringDate == nil || !updated.NextRecurringDate.Equal(day(2024, time.March, 8)) {
		t.Errorf("next recurring date = %v, want 2024-03-08", updated.NextRecurringDate)
	}

	// Turning recurrence off clears both interval and next date.
	stored := storedExpense()
	stored.IsRecurring = true
	stored.RecurringInterval = models.IntervalMonthly
	nd := day(2024, time.April, 1)
	stored.NextRecurringDate = &nd
	txs = &fakeTransactionStore{stored: stored}
	svc, _, _ = newService(txs, &fakeAccountStore{account: testAccount})
	updated, err = svc.UpdateTransaction(cqrs.UpdateTransactionCommand{
		TransactionID: "txn-001", UserID: "usr-001",
		IsRecurring: recurring(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.NextRecurringDate != nil || updated.RecurringInterval != "" {
		t.Errorf("recurrence fields not cleared: interval=%q next=%v", updated.RecurringInterval, updated.NextRecurringDate)
	}
}

func TestUpdateTransactionNotOwned(t *testing.T) {
	txs := &fakeTransactionStore{stored: storedExpense()}
	svc, views, pub := newService(txs, &fakeAccountStore{account: testAccount})

	_, err := svc.UpdateTransaction(cqrs.UpdateTransactionCommand{
		TransactionID: "txn-001", UserID: "usr-999",
	})
	if !errors.Is(err, models.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
	if txs.updateCalls != 0 {
		t.Error("no write may happen for an unowned transaction")
	}
	if len(views.invalidatedAccounts) != 0 || len(pub.types) != 0 {
		t.Error("failed update must have no side effects")
	}
}
