package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/cqrs"
	"github.com/Aanshikesh/PennyPilot/internal/events"
	"github.com/Aanshikesh/PennyPilot/internal/models"
)

const recentTransactionLimit = 10

// DashboardViewStore owns the cached per-user dashboard projection.
type DashboardViewStore interface {
	GetView(ctx context.Context, userID string) (*models.DashboardView, bool)
	CacheView(ctx context.Context, view *models.DashboardView)
	InvalidateView(ctx context.Context, userID string)
}

// RecentTransactionReader supplies the recent-activity slice of the dashboard.
type RecentTransactionReader interface {
	ListRecentByUserID(ctx context.Context, userID string, limit int) ([]models.TransactionView, error)
}

// DashboardQueryService assembles the per-user dashboard: total balance,
// accounts, and recent transactions. Reads are served from Redis when warm;
// a cold read re-projects from PostgreSQL and warms the cache. The same
// projection runs eagerly from the transaction event stream so the view is
// usually warm before the next read.
type DashboardQueryService struct {
	views        DashboardViewStore
	accounts     AccountReader
	transactions RecentTransactionReader
}

func NewDashboardQueryService(
	views DashboardViewStore,
	accounts AccountReader,
	transactions RecentTransactionReader,
) *DashboardQueryService {
	return &DashboardQueryService{
		views:        views,
		accounts:     accounts,
		transactions: transactions,
	}
}

func (s *DashboardQueryService) GetDashboard(ctx context.Context, q cqrs.GetDashboardQuery) (*models.DashboardView, error) {
	if view, ok := s.views.GetView(ctx, q.UserID); ok {
		// UserID is not serialised in the cached view; restore it.
		view.UserID = q.UserID
		return view, nil
	}
	return s.RefreshDashboard(ctx, q.UserID)
}

// RefreshDashboard re-projects the dashboard from PostgreSQL and caches it.
func (s *DashboardQueryService) RefreshDashboard(ctx context.Context, userID string) (*models.DashboardView, error) {
	accounts, err := s.accounts.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to project dashboard accounts: %w", err)
	}
	recent, err := s.transactions.ListRecentByUserID(ctx, userID, recentTransactionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to project dashboard transactions: %w", err)
	}

	var totalBalance float64
	for _, a := range accounts {
		totalBalance += a.Balance
	}

	view := &models.DashboardView{
		UserID:             userID,
		TotalBalance:       totalBalance,
		Accounts:           accounts,
		RecentTransactions: recent,
		GeneratedAt:        time.Now().UTC(),
	}
	s.views.CacheView(ctx, view)
	return view, nil
}

// HandleTransactionEvent is the stream consumer that keeps dashboards fresh.
// Any transaction event for a user triggers a re-projection of that user's
// dashboard view.
func (s *DashboardQueryService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	data, ok := event.Data.(map[string]any)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Type)
	}
	userID, ok := data["userId"].(string)
	if !ok || userID == "" {
		return fmt.Errorf("event %s missing userId", event.Type)
	}
	if _, err := s.RefreshDashboard(ctx, userID); err != nil {
		return err
	}
	return nil
}
