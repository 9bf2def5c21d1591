package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/complaint-desk/complaint-service/internal/domain"
	"github.com/complaint-desk/complaint-service/internal/events"
	"github.com/complaint-desk/complaint-service/internal/repository"
	apperrors "github.com/complaint-desk/complaint-service/pkg/util"
)

// trendMonths is the trailing window covered by the monthly trend.
const trendMonths = 6

// AnalyticsService aggregates complaint statistics for admins.
type AnalyticsService struct {
	complaints repository.ComplaintRepository
	cache      DashboardCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// AnalyticsDependencies bundles collaborators for AnalyticsService. Cache is optional.
type AnalyticsDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Cache         DashboardCache
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Clock         func() time.Time
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(deps AnalyticsDependencies) *AnalyticsService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &AnalyticsService{
		complaints: deps.ComplaintRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// RegisterHandlers drops the cached dashboard whenever a complaint changes.
func (s *AnalyticsService) RegisterHandlers() {
	if s.dispatcher == nil || s.cache == nil {
		return
	}
	for _, eventType := range events.ComplaintEventTypes {
		s.dispatcher.Subscribe(eventType, s.invalidate)
	}
}

func (s *AnalyticsService) invalidate(ctx context.Context, _ events.Event) error {
	return s.cache.Invalidate(ctx)
}

// Dashboard returns status totals, category and priority counts, and the
// monthly trend over the trailing six months.
func (s *AnalyticsService) Dashboard(ctx context.Context, actor *domain.Account) (*domain.Dashboard, error) {
	if actor == nil || !actor.Role.SeesAllComplaints() {
		return nil, apperrors.NewForbidden(msgAccessDenied)
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	dashboard, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboard); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dashboard, nil
}

func (s *AnalyticsService) compute(ctx context.Context) (*domain.Dashboard, error) {
	now := s.now()

	byStatus, err := s.complaints.CountGrouped(ctx, repository.GroupByStatus)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.complaints.CountGrouped(ctx, repository.GroupByCategory)
	if err != nil {
		return nil, err
	}
	byPriority, err := s.complaints.CountGrouped(ctx, repository.GroupByPriority)
	if err != nil {
		return nil, err
	}
	trend, err := s.complaints.MonthlyCounts(ctx, now.AddDate(0, -trendMonths, 0))
	if err != nil {
		return nil, err
	}
	if trend == nil {
		trend = []domain.MonthlyCount{}
	}
	sort.SliceStable(trend, func(i, j int) bool { return trend[i].Before(trend[j]) })

	overview := domain.DashboardOverview{
		Open:       byStatus[string(domain.ComplaintStatusOpen)],
		InProgress: byStatus[string(domain.ComplaintStatusInProgress)],
		Resolved:   byStatus[string(domain.ComplaintStatusResolved)],
		Closed:     byStatus[string(domain.ComplaintStatusClosed)],
	}
	for _, count := range byStatus {
		overview.Total += count
	}

	return &domain.Dashboard{
		Overview:     overview,
		ByCategory:   bucketsByCount(byCategory),
		ByPriority:   bucketsByCount(byPriority),
		MonthlyTrend: trend,
		GeneratedAt:  now.UTC(),
	}, nil
}

// bucketsByCount orders buckets by count descending, then key ascending.
func bucketsByCount(counts map[string]int) []domain.BucketCount {
	buckets := make([]domain.BucketCount, 0, len(counts))
	for key, count := range counts {
		buckets = append(buckets, domain.BucketCount{Key: key, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets
}
