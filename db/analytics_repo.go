package db

import (
	"time"

	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

// AnalyticsRepository is the read-only reporting layer over complaints, users
// and withdrawals. Counts are consistent with the collections at query time;
// no stronger guarantee is made.
type AnalyticsRepository interface {
	CountComplaints() (int64, error)
	CountComplaintsByStatus(status string) (int64, error)
	ComplaintDailyCounts(since time.Time) ([]models.DailyCount, error)
	ComplaintCategoryCounts() ([]models.CategoryCount, error)
	CountUsers() (int64, error)
	CountActiveUsers() (int64, error)
	CountUsersCreatedSince(since time.Time) (int64, error)
	DeviceTokenPlatformCounts() ([]models.PlatformCount, error)
	CountWithdrawals() (int64, error)
	SumWithdrawalAmounts() (int64, error)
	CountWithdrawalsByStatus(status string) (int64, error)
}

type analyticsRepo struct {
	DB *gorm.DB
}

func NewAnalyticsRepo(db *GormDB) AnalyticsRepository {
	return &analyticsRepo{db.DB}
}

func (r *analyticsRepo) CountComplaints() (int64, error) {
	var count int64
	err := r.DB.Model(&models.Complaint{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepo) CountComplaintsByStatus(status string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Complaint{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// ComplaintDailyCounts buckets complaints by calendar day, ascending by date.
// DATE() is understood by both postgres and sqlite, which the tests run on.
func (r *analyticsRepo) ComplaintDailyCounts(since time.Time) ([]models.DailyCount, error) {
	var results []models.DailyCount
	err := r.DB.Model(&models.Complaint{}).
		Select("DATE(created_at) AS date, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("DATE(created_at)").
		Order("date ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepo) ComplaintCategoryCounts() ([]models.CategoryCount, error) {
	var results []models.CategoryCount
	err := r.DB.Model(&models.Complaint{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepo) CountUsers() (int64, error) {
	var count int64
	err := r.DB.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepo) CountActiveUsers() (int64, error) {
	var count int64
	err := r.DB.Model(&models.User{}).Where("active = ?", true).Count(&count).Error
	return count, err
}

func (r *analyticsRepo) CountUsersCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&models.User{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *analyticsRepo) DeviceTokenPlatformCounts() ([]models.PlatformCount, error) {
	var results []models.PlatformCount
	err := r.DB.Model(&models.DeviceToken{}).
		Select("platform, COUNT(*) AS count").
		Group("platform").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *analyticsRepo) CountWithdrawals() (int64, error) {
	var count int64
	err := r.DB.Model(&models.Withdrawal{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepo) SumWithdrawalAmounts() (int64, error) {
	var total int64
	err := r.DB.Model(&models.Withdrawal{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *analyticsRepo) CountWithdrawalsByStatus(status string) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Withdrawal{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
