package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/models"
)

func newAnalyticsService(t *testing.T) (AnalyticsService, *db.GormDB) {
	t.Helper()
	gdb := newTestDB(t)
	return NewAnalyticsService(db.NewAnalyticsRepo(gdb), nil, testConfig()), gdb
}

func seedComplaint(t *testing.T, gdb *db.GormDB, status, category string) {
	t.Helper()
	require.NoError(t, gdb.DB.Create(&models.Complaint{
		ID:          uuid.New(),
		Category:    category,
		Subject:     "seeded",
		Description: "seeded complaint for reporting",
		Status:      status,
	}).Error)
}

func TestComplaintAnalyticsCountsByStatus(t *testing.T) {
	svc, gdb := newAnalyticsService(t)
	for i := 0; i < 3; i++ {
		seedComplaint(t, gdb, models.ComplaintStatusPending, "roads")
	}
	for i := 0; i < 2; i++ {
		seedComplaint(t, gdb, models.ComplaintStatusApproved, "waste")
	}
	seedComplaint(t, gdb, models.ComplaintStatusRejected, "roads")

	out, err := svc.GetComplaintAnalytics(context.Background(), 30)
	require.NoError(t, err)
	require.EqualValues(t, 6, out.Total)
	require.EqualValues(t, 3, out.Pending)
	require.EqualValues(t, 2, out.Approved)
	require.EqualValues(t, 1, out.Rejected)
	require.Equal(t, 30, out.LookbackDays)
	require.NotEmpty(t, out.DailyTrend)
	require.Len(t, out.ByCategory, 2)
}

func TestUserAnalyticsCountsActiveUsers(t *testing.T) {
	svc, gdb := newAnalyticsService(t)
	createTestUser(t, gdb, "active@test.com")
	inactive := createTestUser(t, gdb, "inactive@test.com")
	require.NoError(t, gdb.DB.Model(inactive).Update("active", false).Error)

	out, err := svc.GetUserAnalytics(context.Background(), 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, out.Total)
	require.EqualValues(t, 1, out.Active)
	// days below 1 falls back to the default window
	require.Equal(t, 30, out.LookbackDays)
}

func TestWithdrawalAnalyticsSumsAmounts(t *testing.T) {
	svc, gdb := newAnalyticsService(t)
	user := createTestUser(t, gdb, "wsums@test.com")
	for _, amount := range []int{10, 20, 30} {
		require.NoError(t, gdb.DB.Create(&models.Withdrawal{
			UserID: user.ID,
			Amount: amount,
			Status: models.WithdrawalStatusPending,
		}).Error)
	}

	out, err := svc.GetWithdrawalAnalytics(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, out.Total)
	require.EqualValues(t, 60, out.Amount)
	require.EqualValues(t, 3, out.Pending)
	require.EqualValues(t, 0, out.Approved)
}
