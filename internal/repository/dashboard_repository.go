package repository

import (
	"context"
	"time"

	"github.com/Aanshikesh/PennyPilot/internal/models"
	appredis "github.com/Aanshikesh/PennyPilot/internal/redis"
	goredis "github.com/redis/go-redis/v9"
)

const dashboardViewKeyPrefix = "dashboard:view:"

// dashboardViewTTL bounds staleness if an invalidation is ever missed.
const dashboardViewTTL = 15 * time.Minute

// DashboardReadRepository holds the cached per-user dashboard projection.
// The projection itself is assembled by the dashboard query service; this
// repository only owns the Redis keyspace for it.
type DashboardReadRepository struct {
	cache *appredis.ViewCache[models.DashboardView]
}

func NewDashboardReadRepository(redisClient *goredis.Client) *DashboardReadRepository {
	return &DashboardReadRepository{
		cache: appredis.NewViewCache[models.DashboardView](redisClient, dashboardViewTTL),
	}
}

func (r *DashboardReadRepository) GetView(ctx context.Context, userID string) (*models.DashboardView, bool) {
	return r.cache.Get(ctx, dashboardViewKeyPrefix+userID)
}

func (r *DashboardReadRepository) CacheView(ctx context.Context, view *models.DashboardView) {
	r.cache.Set(ctx, dashboardViewKeyPrefix+view.UserID, view)
}

// InvalidateView drops the cached dashboard for a user. Called after every
// transaction write; the next read re-projects from PostgreSQL.
func (r *DashboardReadRepository) InvalidateView(ctx context.Context, userID string) {
	r.cache.Delete(ctx, dashboardViewKeyPrefix+userID)
}
