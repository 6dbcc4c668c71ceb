package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/models"
)

// retentionPlaceholder stands in for a retention computation that was never
// implemented upstream. Do not read meaning into the value.
const retentionPlaceholder = 75.0

const analyticsCacheTTL = time.Minute

// AnalyticsService is stateless read-side reporting over complaints, users
// and withdrawals, parameterized by a lookback window in days.
type AnalyticsService interface {
	GetComplaintAnalytics(ctx context.Context, days int) (*models.ComplaintAnalytics, error)
	GetUserAnalytics(ctx context.Context, days int) (*models.UserAnalytics, error)
	GetWithdrawalAnalytics(ctx context.Context) (*models.WithdrawalAnalytics, error)
}

type analyticsService struct {
	Config        *config.Config
	analyticsRepo db.AnalyticsRepository
	cache         *redis.Client
}

// NewAnalyticsService builds the reporting service. cache may be nil, in
// which case every call hits the store directly.
func NewAnalyticsService(analyticsRepo db.AnalyticsRepository, cache *redis.Client, conf *config.Config) AnalyticsService {
	return &analyticsService{
		Config:        conf,
		analyticsRepo: analyticsRepo,
		cache:         cache,
	}
}

func (s *analyticsService) GetComplaintAnalytics(ctx context.Context, days int) (*models.ComplaintAnalytics, error) {
	if days < 1 {
		days = 30
	}
	key := fmt.Sprintf("analytics:complaints:%d", days)
	if cached, ok := cacheGet[models.ComplaintAnalytics](ctx, s.cache, key); ok {
		return cached, nil
	}

	out := &models.ComplaintAnalytics{LookbackDays: days}
	var err error
	if out.Total, err = s.analyticsRepo.CountComplaints(); err != nil {
		return nil, fmt.Errorf("counting complaints: %w", err)
	}
	if out.Pending, err = s.analyticsRepo.CountComplaintsByStatus(models.ComplaintStatusPending); err != nil {
		return nil, err
	}
	if out.Approved, err = s.analyticsRepo.CountComplaintsByStatus(models.ComplaintStatusApproved); err != nil {
		return nil, err
	}
	if out.Rejected, err = s.analyticsRepo.CountComplaintsByStatus(models.ComplaintStatusRejected); err != nil {
		return nil, err
	}

	since := time.Now().AddDate(0, 0, -days)
	if out.DailyTrend, err = s.analyticsRepo.ComplaintDailyCounts(since); err != nil {
		return nil, fmt.Errorf("bucketing complaint trend: %w", err)
	}
	if out.ByCategory, err = s.analyticsRepo.ComplaintCategoryCounts(); err != nil {
		return nil, fmt.Errorf("grouping complaint categories: %w", err)
	}

	cacheSet(ctx, s.cache, key, out)
	return out, nil
}

func (s *analyticsService) GetUserAnalytics(ctx context.Context, days int) (*models.UserAnalytics, error) {
	if days < 1 {
		days = 30
	}
	key := fmt.Sprintf("analytics:users:%d", days)
	if cached, ok := cacheGet[models.UserAnalytics](ctx, s.cache, key); ok {
		return cached, nil
	}

	out := &models.UserAnalytics{
		LookbackDays:  days,
		RetentionRate: retentionPlaceholder,
	}
	var err error
	if out.Total, err = s.analyticsRepo.CountUsers(); err != nil {
		return nil, fmt.Errorf("counting users: %w", err)
	}
	if out.Active, err = s.analyticsRepo.CountActiveUsers(); err != nil {
		return nil, err
	}
	since := time.Now().AddDate(0, 0, -days)
	if out.NewInWindow, err = s.analyticsRepo.CountUsersCreatedSince(since); err != nil {
		return nil, err
	}
	if out.ByPlatform, err = s.analyticsRepo.DeviceTokenPlatformCounts(); err != nil {
		return nil, fmt.Errorf("grouping device tokens: %w", err)
	}

	cacheSet(ctx, s.cache, key, out)
	return out, nil
}

func (s *analyticsService) GetWithdrawalAnalytics(ctx context.Context) (*models.WithdrawalAnalytics, error) {
	key := "analytics:withdrawals"
	if cached, ok := cacheGet[models.WithdrawalAnalytics](ctx, s.cache, key); ok {
		return cached, nil
	}

	out := &models.WithdrawalAnalytics{}
	var err error
	if out.Total, err = s.analyticsRepo.CountWithdrawals(); err != nil {
		return nil, fmt.Errorf("counting withdrawals: %w", err)
	}
	if out.Amount, err = s.analyticsRepo.SumWithdrawalAmounts(); err != nil {
		return nil, err
	}
	if out.Pending, err = s.analyticsRepo.CountWithdrawalsByStatus(models.WithdrawalStatusPending); err != nil {
		return nil, err
	}
	if out.Approved, err = s.analyticsRepo.CountWithdrawalsByStatus(models.WithdrawalStatusApproved); err != nil {
		return nil, err
	}

	cacheSet(ctx, s.cache, key, out)
	return out, nil
}

func cacheGet[T any](ctx context.Context, cache *redis.Client, key string) (*T, bool) {
	if cache == nil {
		return nil, false
	}
	data, err := cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.Sugar.Debugw("analytics cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func cacheSet(ctx context.Context, cache *redis.Client, key string, value interface{}) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, analyticsCacheTTL).Err(); err != nil {
		logging.Sugar.Debugw("analytics cache write failed", "key", key, "error", err)
	}
}
