package services

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/techagentng/complaintx/db"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/models"
)

func newPointsService(t *testing.T) (PointsService, *db.GormDB) {
	t.Helper()
	gdb := newTestDB(t)
	return NewPointsService(db.NewPointsRepo(gdb), testConfig()), gdb
}

func TestAwardPointsUpdatesBalanceAndHistory(t *testing.T) {
	svc, gdb := newPointsService(t)
	user := createTestUser(t, gdb, "award@test.com")

	err := svc.AwardPoints(user.ID, 50, models.PointsSourceAdminAdjustment, "ref-1")
	require.NoError(t, err)

	balance, err := svc.GetBalance(user.ID)
	require.NoError(t, err)
	require.Equal(t, 50, balance)

	history, err := svc.GetHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.PointsTypeEarned, history[0].Type)
	require.Equal(t, 50, history[0].Points)
	require.Equal(t, "ref-1", history[0].ReferenceID)
}

func TestRedeemPointsUpdatesBalanceAndHistory(t *testing.T) {
	svc, gdb := newPointsService(t)
	user := createTestUser(t, gdb, "redeem@test.com")

	require.NoError(t, svc.AwardPoints(user.ID, 100, models.PointsSourceAdminAdjustment, ""))
	require.NoError(t, svc.RedeemPoints(user.ID, 30, models.PointsSourceWithdrawal, "wd-1"))

	balance, err := svc.GetBalance(user.ID)
	require.NoError(t, err)
	require.Equal(t, 70, balance)

	history, err := svc.GetHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	var redeemed *models.PointsHistory
	for i := range history {
		if history[i].Type == models.PointsTypeRedeemed {
			redeemed = &history[i]
		}
	}
	require.NotNil(t, redeemed)
	require.Equal(t, -30, redeemed.Points)
	require.Equal(t, "wd-1", redeemed.ReferenceID)
}

func TestRedeemPointsRejectsOverdraft(t *testing.T) {
	svc, gdb := newPointsService(t)
	user := createTestUser(t, gdb, "overdraft@test.com")

	require.NoError(t, svc.AwardPoints(user.ID, 10, models.PointsSourceAdminAdjustment, ""))

	err := svc.RedeemPoints(user.ID, 30, models.PointsSourceWithdrawal, "")
	require.ErrorIs(t, err, errs.ErrLowBalance)

	// balance unchanged and no history appended for the failed movement
	balance, err := svc.GetBalance(user.ID)
	require.NoError(t, err)
	require.Equal(t, 10, balance)

	history, err := svc.GetHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestPointsMovementRejectsNegativeAmount(t *testing.T) {
	svc, gdb := newPointsService(t)
	user := createTestUser(t, gdb, "negative@test.com")

	require.ErrorIs(t, svc.AwardPoints(user.ID, -5, models.PointsSourceAdminAdjustment, ""), errs.ErrInvalidPoints)
	require.ErrorIs(t, svc.RedeemPoints(user.ID, -5, models.PointsSourceWithdrawal, ""), errs.ErrInvalidPoints)
}

func TestAwardPointsUnknownUser(t *testing.T) {
	svc, _ := newPointsService(t)

	err := svc.AwardPoints(9999, 10, models.PointsSourceAdminAdjustment, "")
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestConcurrentAwardsAreSerialized(t *testing.T) {
	svc, gdb := newPointsService(t)
	user := createTestUser(t, gdb, "concurrent@test.com")

	const workers = 20
	errc := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errc <- svc.AwardPoints(user.ID, 10, models.PointsSourceAdminAdjustment, strconv.Itoa(n))
		}(i)
	}
	wg.Wait()
	close(errc)
	for err := range errc {
		require.NoError(t, err)
	}

	balance, err := svc.GetBalance(user.ID)
	require.NoError(t, err)
	require.Equal(t, 10*workers, balance)

	history, err := svc.GetHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, workers)
}
