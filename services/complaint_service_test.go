package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/techagentng/complaintx/db"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/models"
)

type complaintFixture struct {
	gdb        *db.GormDB
	svc        ComplaintService
	points     PointsService
	dispatcher *fakeDispatcher
	publisher  *fakePublisher
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	gdb := newTestDB(t)
	conf := testConfig()
	points := NewPointsService(db.NewPointsRepo(gdb), conf)
	dispatcher := &fakeDispatcher{}
	publisher := &fakePublisher{}
	svc := NewComplaintService(
		db.NewComplaintRepo(gdb),
		db.NewUserRepo(gdb),
		points,
		dispatcher,
		publisher,
		nil,
		conf,
	)
	return &complaintFixture{
		gdb:        gdb,
		svc:        svc,
		points:     points,
		dispatcher: dispatcher,
		publisher:  publisher,
	}
}

func (f *complaintFixture) createComplaint(t *testing.T, userID *uint) *models.Complaint {
	t.Helper()
	complaint, err := f.svc.CreateComplaint(userID, &models.CreateComplaintRequest{
		Category:    "roads",
		Subject:     "Broken streetlight",
		Description: "The streetlight on Main Street has been out for a week",
	})
	require.NoError(t, err)
	require.Equal(t, models.ComplaintStatusPending, complaint.Status)
	return complaint
}

func TestCreateComplaintAnonymousDropsOwner(t *testing.T) {
	f := newComplaintFixture(t)
	user := createTestUser(t, f.gdb, "anon@test.com")

	complaint, err := f.svc.CreateComplaint(&user.ID, &models.CreateComplaintRequest{
		Category:    "waste",
		Subject:     "Overflowing bin",
		Description: "The bin at the park entrance has not been emptied",
		Anonymous:   true,
	})
	require.NoError(t, err)
	require.True(t, complaint.IsAnonymous())
}

func TestUpdateComplaintStatusWritesOneTimelineAndOneAudit(t *testing.T) {
	f := newComplaintFixture(t)
	user := createTestUser(t, f.gdb, "owner@test.com")
	admin := createTestUser(t, f.gdb, "admin@test.com")
	complaint := f.createComplaint(t, &user.ID)

	updated, err := f.svc.UpdateComplaintStatus(complaint.ID, models.ComplaintStatusRejected, "duplicate", "already reported", admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.ComplaintStatusRejected, updated.Status)
	require.Equal(t, "duplicate", updated.ResolutionReason)

	var timeline []models.TimelineEntry
	require.NoError(t, f.gdb.DB.Where("complaint_id = ?", complaint.ID).Find(&timeline).Error)
	require.Len(t, timeline, 1)
	require.Equal(t, models.ComplaintStatusRejected, timeline[0].Status)
	require.Equal(t, admin.ID, timeline[0].AdminID)

	var actions []models.ActionHistory
	require.NoError(t, f.gdb.DB.Where("resource_id = ?", complaint.ID.String()).Find(&actions).Error)
	require.Len(t, actions, 1)
	require.Equal(t, models.ActionUpdateComplaint, actions[0].Action)

	// the owner is notified off the request path
	require.Eventually(t, func() bool {
		var count int64
		f.gdb.DB.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
		return count == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestUpdateComplaintStatusOnlyFromPending(t *testing.T) {
	f := newComplaintFixture(t)
	user := createTestUser(t, f.gdb, "once@test.com")
	admin := createTestUser(t, f.gdb, "admin2@test.com")
	complaint := f.createComplaint(t, &user.ID)

	_, err := f.svc.UpdateComplaintStatus(complaint.ID, models.ComplaintStatusRejected, "spam", "", admin.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateComplaintStatus(complaint.ID, models.ComplaintStatusApproved, "changed my mind", "", admin.ID)
	require.ErrorIs(t, err, errs.ErrBadStatus)
}

func TestApproveComplaintAwardsPoints(t *testing.T) {
	f := newComplaintFixture(t)
	user := createTestUser(t, f.gdb, "earner@test.com")
	admin := createTestUser(t, f.gdb, "admin3@test.com")
	require.NoError(t, f.gdb.DB.Create(&models.DeviceToken{UserID: user.ID, Token: "tok-1", Platform: "android"}).Error)
	complaint := f.createComplaint(t, &user.ID)

	approved, err := f.svc.ApproveComplaint(complaint.ID, 50, "verified", "crew dispatched", admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.ComplaintStatusApproved, approved.Status)
	require.NotNil(t, approved.PointsAwarded)
	require.Equal(t, 50, *approved.PointsAwarded)

	balance, err := f.points.GetBalance(user.ID)
	require.NoError(t, err)
	require.Equal(t, 50, balance)

	history, err := f.points.GetHistory(user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, models.PointsTypeEarned, history[0].Type)
	require.Equal(t, models.PointsSourceComplaintApproval, history[0].Source)
	require.Equal(t, complaint.ID.String(), history[0].ReferenceID)

	require.Eventually(t, func() bool {
		return f.dispatcher.count() == 1 && f.publisher.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	event, ok := f.publisher.last()
	require.True(t, ok)
	require.Equal(t, "complaint_update", event.Event)
}

func TestApproveAnonymousComplaintSkipsLedgerAndNotifications(t *testing.T) {
	f := newComplaintFixture(t)
	admin := createTestUser(t, f.gdb, "admin4@test.com")
	complaint := f.createComplaint(t, nil)

	approved, err := f.svc.ApproveComplaint(complaint.ID, 50, "verified", "", admin.ID)
	require.NoError(t, err)
	require.Equal(t, models.ComplaintStatusApproved, approved.Status)

	var ledgerRows int64
	require.NoError(t, f.gdb.DB.Model(&models.PointsHistory{}).Count(&ledgerRows).Error)
	require.Zero(t, ledgerRows)

	var notifications int64
	require.NoError(t, f.gdb.DB.Model(&models.Notification{}).Count(&notifications).Error)
	require.Zero(t, notifications)
	require.Zero(t, f.dispatcher.count())
	require.Zero(t, f.publisher.count())
}

func TestApproveComplaintRejectsNegativePoints(t *testing.T) {
	f := newComplaintFixture(t)
	user := createTestUser(t, f.gdb, "neg@test.com")
	admin := createTestUser(t, f.gdb, "admin5@test.com")
	complaint := f.createComplaint(t, &user.ID)

	_, err := f.svc.ApproveComplaint(complaint.ID, -10, "verified", "", admin.ID)
	require.ErrorIs(t, err, errs.ErrInvalidPoints)
}

func TestGetComplaintNotFound(t *testing.T) {
	f := newComplaintFixture(t)

	_, err := f.svc.GetComplaint(uuid.New())
	require.ErrorIs(t, err, errs.ErrNotFound)
}
