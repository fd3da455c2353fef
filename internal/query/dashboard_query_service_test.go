package query

import (
	"context"
	"testing"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/events"
	"github.com/Aanshikesh/PennyPilot/internal/models"
)

type fakeDashboardStore struct {
	cached map[string]*models.DashboardView
}

func newFakeDashboardStore() *fakeDashboardStore {
	return &fakeDashboardStore{cached: map[string]*models.DashboardView{}}
}

func (f *fakeDashboardStore) GetView(ctx context.Context, userID string) (*models.DashboardView, bool) {
	v, ok := f.cached[userID]
	if !ok {
		return nil, false
	}
	copy := *v
	copy.UserID = "" // cached payload does not carry the user id
	return &copy, true
}

func (f *fakeDashboardStore) CacheView(ctx context.Context, view *models.DashboardView) {
	f.cached[view.UserID] = view
}

func (f *fakeDashboardStore) InvalidateView(ctx context.Context, userID string) {
	delete(f.cached, userID)
}

type fakeAccountReader struct {
	accounts []models.AccountView
}

func (f *fakeAccountReader) GetByAccountNumber(ctx context.Context, accountNumber string) (*models.AccountView, error) {
	for i := range f.accounts {
		if f.accounts[i].AccountNumber == accountNumber {
			return &f.accounts[i], nil
		}
	}
	return nil, models.ErrAccountNotFound
}

func (f *fakeAccountReader) ListByUserID(ctx context.Context, userID string) ([]models.AccountView, error) {
	var out []models.AccountView
	for _, a := range f.accounts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeRecentReader struct {
	recent []models.TransactionView
	calls  int
}

func (f *fakeRecentReader) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]models.TransactionView, error) {
	f.calls++
	if len(f.recent) > limit {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

func TestGetDashboardProjectsOnColdRead(t *testing.T) {
	store := newFakeDashboardStore()
	accounts := &fakeAccountReader{accounts: []models.AccountView{
		{AccountNumber: "02111111", UserID: "usr-001", Balance: 120.50},
		{AccountNumber: "02222222", UserID: "usr-001", Balance: -20.50},
		{AccountNumber: "02333333", UserID: "usr-002", Balance: 999},
	}}
	recent := &fakeRecentReader{recent: []models.TransactionView{
		{ID: "txn-001", Amount: 30, Type: models.TypeExpense, Date: time.Now()},
	}}
	svc := NewDashboardQueryService(store, accounts, recent)

	view, err := svc.GetDashboard(context.Background(), cqrs.GetDashboardQuery{UserID: "usr-001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalBalance != 100.00 {
		t.Errorf("total balance = %v, want 100.00", view.TotalBalance)
	}
	if len(view.Accounts) != 2 {
		t.Errorf("accounts = %d, want 2 (other users' accounts excluded)", len(view.Accounts))
	}
	if len(view.RecentTransactions) != 1 {
		t.Errorf("recent transactions = %d, want 1", len(view.RecentTransactions))
	}
	if _, ok := store.cached["usr-001"]; !ok {
		t.Error("cold read must warm the cache")
	}
}

func TestGetDashboardServesWarmCache(t *testing.T) {
	store := newFakeDashboardStore()
	store.CacheView(context.Background(), &models.DashboardView{
		UserID:       "usr-001",
		TotalBalance: 42,
	})
	recent := &fakeRecentReader{}
	svc := NewDashboardQueryService(store, &fakeAccountReader{}, recent)

	view, err := svc.GetDashboard(context.Background(), cqrs.GetDashboardQuery{UserID: "usr-001"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.TotalBalance != 42 {
		t.Errorf("total balance = %v, want 42 from cache", view.TotalBalance)
	}
	if view.UserID != "usr-001" {
		t.Errorf("user id = %q, must be restored on cache hits", view.UserID)
	}
	if recent.calls != 0 {
		t.Error("warm read must not hit PostgreSQL")
	}
}

func TestHandleTransactionEventReprojects(t *testing.T) {
	store := newFakeDashboardStore()
	accounts := &fakeAccountReader{accounts: []models.AccountView{
		{AccountNumber: "02111111", UserID: "usr-001", Balance: 70},
	}}
	svc := NewDashboardQueryService(store, accounts, &fakeRecentReader{})

	err := svc.HandleTransactionEvent(context.Background(), events.Event{
		Type:      events.TransactionCreated,
		Timestamp: time.Now(),
		Data: map[string]any{
			"transactionId": "txn-001",
			"userId":        "usr-001",
			"balanceDelta":  -30.0,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	view, ok := store.cached["usr-001"]
	if !ok {
		t.Fatal("event must leave a fresh projection in the cache")
	}
	if view.TotalBalance != 70 {
		t.Errorf("total balance = %v, want 70", view.TotalBalance)
	}
}

func TestHandleTransactionEventRejectsMalformedPayload(t *testing.T) {
	svc := NewDashboardQueryService(newFakeDashboardStore(), &fakeAccountReader{}, &fakeRecentReader{})

	if err := svc.HandleTransactionEvent(context.Background(), events.Event{
		Type: events.TransactionCreated,
		Data: "not an object",
	}); err == nil {
		t.Error("expected error for non-object payload")
	}
	if err := svc.HandleTransactionEvent(context.Background(), events.Event{
		Type: events.TransactionCreated,
		Data: map[string]any{"transactionId": "txn-001"},
	}); err == nil {
		t.Error("expected error for payload without userId")
	}
}

func TestGetAccountOwnership(t *testing.T) {
	accounts := &fakeAccountReader{accounts: []models.AccountView{
		{AccountNumber: "02111111", UserID: "usr-001", Balance: 10},
	}}
	svc := NewAccountQueryService(accounts)

	if _, err := svc.GetAccount(context.Background(), cqrs.GetAccountQuery{
		AccountNumber: "02111111", UserID: "usr-001",
	}); err != nil {
		t.Fatalf("owner read failed: %v", err)
	}

	_, err := svc.GetAccount(context.Background(), cqrs.GetAccountQuery{
		AccountNumber: "02111111", UserID: "usr-002",
	})
	if err != models.ErrAccountNotFound {
		t.Errorf("foreign account read = %v, want ErrAccountNotFound", err)
	}
}
