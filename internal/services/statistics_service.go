package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"mutualaid_app/internal/models"
)

const fundStatisticsCacheKey = "fund:dashboard_statistics"

// FundStatistics is the aggregate view shown on the admin dashboard
type FundStatistics struct {
	ActiveMembers   int64   `json:"active_members"`
	PendingRequests int64   `json:"pending_requests"`
	TotalCollected  float64 `json:"total_collected"`
	TotalDisbursed  float64 `json:"total_disbursed"`
	CurrentBalance  float64 `json:"current_balance"`
	LateMembers     int64   `json:"late_members"`
}

// StatisticsService computes fund-wide aggregates for reporting
type StatisticsService struct {
	db    *gorm.DB
	cache *RedisCache
}

func NewStatisticsService(db *gorm.DB, cache *RedisCache) *StatisticsService {
	return &StatisticsService{db: db, cache: cache}
}

// DashboardStatistics returns the fund aggregates, cached for a few
// minutes since the dashboard polls them
func (s *StatisticsService) DashboardStatistics(ctx context.Context) (*FundStatistics, error) {
	if s.cache != nil {
		return GetOrSet(s.cache, ctx, fundStatisticsCacheKey, 5*time.Minute, func() (*FundStatistics, error) {
			return s.computeStatistics(ctx)
		})
	}
	return s.computeStatistics(ctx)
}

// InvalidateDashboard drops the cached aggregates after admin actions
// that change them
func (s *StatisticsService) InvalidateDashboard(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, fundStatisticsCacheKey)
	}
}

func (s *StatisticsService) computeStatistics(ctx context.Context) (*FundStatistics, error) {
	db := s.db.WithContext(ctx)
	stats := &FundStatistics{}

	err := db.Model(&models.MemberProfile{}).
		Where("account_status = ?", models.AccountStatusActive).
		Count(&stats.ActiveMembers).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.AssistanceRequest{}).
		Where("status = ?", models.RequestStatusPending).
		Count(&stats.PendingRequests).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Contribution{}).
		Where("status = ?", models.PaymentStatusPaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalCollected).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.AssistanceRequest{}).
		Where("status = ?", models.RequestStatusApproved).
		Select("COALESCE(SUM(approved_amount), 0)").
		Scan(&stats.TotalDisbursed).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.MemberProfile{}).
		Where("months_late > 0").
		Count(&stats.LateMembers).Error
	if err != nil {
		return nil, err
	}

	stats.TotalCollected = round2(stats.TotalCollected)
	stats.TotalDisbursed = round2(stats.TotalDisbursed)
	stats.CurrentBalance = round2(stats.TotalCollected - stats.TotalDisbursed)
	return stats, nil
}
