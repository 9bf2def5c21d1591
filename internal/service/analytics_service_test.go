package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complaint-desk/complaint-service/internal/domain"
)

type memoryDashboardCache struct {
	dashboard   *domain.Dashboard
	sets        int
	invalidated int
}

func (c *memoryDashboardCache) Get(context.Context) (*domain.Dashboard, error) {
	if c.dashboard == nil {
		return nil, ErrCacheMiss
	}
	return c.dashboard, nil
}

func (c *memoryDashboardCache) Set(_ context.Context, dashboard *domain.Dashboard) error {
	c.dashboard = dashboard
	c.sets++
	return nil
}

func (c *memoryDashboardCache) Invalidate(context.Context) error {
	c.dashboard = nil
	c.invalidated++
	return nil
}

func TestAnalyticsService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()

	customer := f.customer(t, "cust@example.com")
	admin := f.staff(t, "admin@example.com", domain.RoleAdmin)
	tech := f.staff(t, "tech@example.com", domain.RoleTechnician)

	create := func(at time.Time, category domain.ComplaintCategory, priority domain.ComplaintPriority) *domain.Complaint {
		f.clock.Set(at)
		c, err := f.complaints.Create(ctx, customer, ComplaintCreateInput{
			Title: "t", Description: "d", Category: category, Priority: priority,
		})
		require.NoError(t, err)
		return c
	}

	old := create(now.AddDate(-1, 0, 0), domain.CategoryBilling, domain.PriorityLow)
	create(now.AddDate(0, -2, 0), domain.CategoryBilling, domain.PriorityHigh)
	assigned := create(now.AddDate(0, -1, 0), domain.CategoryTechnical, domain.PriorityHigh)
	create(now, domain.CategoryBilling, domain.PriorityHigh)
	f.clock.Set(now)

	_, err := f.complaints.Assign(ctx, admin, assigned.ID, tech.ID)
	require.NoError(t, err)
	_, err = f.complaints.UpdateStatus(ctx, admin, old.ID, domain.ComplaintStatusClosed)
	require.NoError(t, err)

	analytics := NewAnalyticsService(AnalyticsDependencies{ComplaintRepo: f.store.Complaints(), Clock: f.clock.Now})
	dashboard, err := analytics.Dashboard(ctx, admin)
	require.NoError(t, err)

	o := dashboard.Overview
	assert.Equal(t, 4, o.Total)
	assert.Equal(t, o.Total, o.Open+o.InProgress+o.Resolved+o.Closed)
	assert.Equal(t, 2, o.Open)
	assert.Equal(t, 1, o.InProgress)
	assert.Equal(t, 1, o.Closed)

	require.Len(t, dashboard.ByCategory, 2)
	assert.Equal(t, domain.BucketCount{Key: "billing", Count: 3}, dashboard.ByCategory[0])
	assert.Equal(t, domain.BucketCount{Key: "technical", Count: 1}, dashboard.ByCategory[1])
	assert.Equal(t, domain.BucketCount{Key: "high", Count: 3}, dashboard.ByPriority[0])

	windowStart := now.AddDate(0, -6, 0)
	require.Len(t, dashboard.MonthlyTrend, 3)
	for i, bucket := range dashboard.MonthlyTrend {
		monthEnd := time.Date(bucket.Year, time.Month(bucket.Month)+1, 1, 0, 0, 0, 0, time.UTC)
		assert.True(t, monthEnd.After(windowStart))
		assert.False(t, time.Date(bucket.Year, time.Month(bucket.Month), 1, 0, 0, 0, 0, time.UTC).After(now))
		if i > 0 {
			assert.True(t, dashboard.MonthlyTrend[i-1].Before(bucket))
		}
	}
}

func TestAnalyticsService_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	tech := f.staff(t, "tech@example.com", domain.RoleTechnician)

	analytics := NewAnalyticsService(AnalyticsDependencies{ComplaintRepo: f.store.Complaints()})
	_, err := analytics.Dashboard(context.Background(), tech)
	requireStatus(t, err, http.StatusForbidden)
}

func TestAnalyticsService_CacheInvalidatedOnMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := f.customer(t, "cust@example.com")
	admin := f.staff(t, "admin@example.com", domain.RoleAdmin)

	cache := &memoryDashboardCache{}
	analytics := NewAnalyticsService(AnalyticsDependencies{
		ComplaintRepo: f.store.Complaints(),
		Cache:         cache,
		Dispatcher:    f.dispatcher,
		Clock:         f.clock.Now,
	})
	analytics.RegisterHandlers()

	first, err := analytics.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, first.Overview.Total)
	assert.Equal(t, 1, cache.sets)

	cached, err := analytics.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Same(t, first, cached)
	assert.Equal(t, 1, cache.sets)

	f.complaint(t, customer)
	assert.Equal(t, 1, cache.invalidated)

	fresh, err := analytics.Dashboard(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Overview.Total)
}
