package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/mailingservices"
	"github.com/techagentng/complaintx/models"
	"github.com/techagentng/complaintx/realtime"
	"gorm.io/gorm"
)

// ComplaintService drives the complaint lifecycle: pending complaints are
// approved or rejected by an admin, every transition is audited, and approval
// of a non-anonymous complaint awards points through the ledger.
type ComplaintService interface {
	CreateComplaint(userID *uint, req *models.CreateComplaintRequest) (*models.Complaint, error)
	GetComplaint(complaintID uuid.UUID) (*models.Complaint, error)
	ListComplaints(status string, page int) ([]models.Complaint, error)
	ListUserComplaints(userID uint, page int) ([]models.Complaint, error)
	UpdateComplaintStatus(complaintID uuid.UUID, status, reason, description string, adminID uint) (*models.Complaint, error)
	ApproveComplaint(complaintID uuid.UUID, points int, reason, description string, adminID uint) (*models.Complaint, error)
}

type complaintService struct {
	Config        *config.Config
	complaintRepo db.ComplaintRepository
	userRepo      db.UserRepository
	pointsService PointsService
	dispatcher    Dispatcher
	publisher     realtime.Publisher
	mail          *mailingservices.Mailgun
}

func NewComplaintService(
	complaintRepo db.ComplaintRepository,
	userRepo db.UserRepository,
	pointsService PointsService,
	dispatcher Dispatcher,
	publisher realtime.Publisher,
	mail *mailingservices.Mailgun,
	conf *config.Config,
) ComplaintService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &complaintService{
		Config:        conf,
		complaintRepo: complaintRepo,
		userRepo:      userRepo,
		pointsService: pointsService,
		dispatcher:    dispatcher,
		publisher:     publisher,
		mail:          mail,
	}
}

func (s *complaintService) CreateComplaint(userID *uint, req *models.CreateComplaintRequest) (*models.Complaint, error) {
	complaint := &models.Complaint{
		ID:          uuid.New(),
		UserID:      userID,
		Category:    req.Category,
		Subject:     req.Subject,
		Description: req.Description,
		Address:     req.Address,
		Status:      models.ComplaintStatusPending,
	}
	if req.Anonymous {
		complaint.UserID = nil
	}

	saved, err := s.complaintRepo.SaveComplaint(complaint)
	if err != nil {
		return nil, fmt.Errorf("error creating complaint: %w", err)
	}
	return saved, nil
}

func (s *complaintService) GetComplaint(complaintID uuid.UUID) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return complaint, nil
}

func (s *complaintService) ListComplaints(status string, page int) ([]models.Complaint, error) {
	if page < 1 {
		page = 1
	}
	if status == "" {
		return s.complaintRepo.GetAllComplaints(page)
	}
	return s.complaintRepo.GetComplaintsByStatus(status, page)
}

func (s *complaintService) ListUserComplaints(userID uint, page int) ([]models.Complaint, error) {
	if page < 1 {
		page = 1
	}
	return s.complaintRepo.GetComplaintsByUserID(userID, page)
}

// UpdateComplaintStatus transitions a pending complaint to approved or
// rejected. The status change, one timeline entry and one audit record are
// written in a single transaction; user-facing side channels fire afterwards
// and never fail the operation.
func (s *complaintService) UpdateComplaintStatus(complaintID uuid.UUID, status, reason, description string, adminID uint) (*models.Complaint, error) {
	return s.transition(complaintID, status, reason, description, adminID, nil)
}

// ApproveComplaint fuses the approval transition with the point award. The
// status change, timeline entry, audit record, awarded-points field and, for
// a non-anonymous complaint, the ledger movement commit or roll back
// together. Anonymous complaints are approved without touching the ledger.
func (s *complaintService) ApproveComplaint(complaintID uuid.UUID, points int, reason, description string, adminID uint) (*models.Complaint, error) {
	if points < 0 {
		return nil, errs.ErrInvalidPoints
	}
	return s.transition(complaintID, models.ComplaintStatusApproved, reason, description, adminID, &points)
}

func (s *complaintService) transition(complaintID uuid.UUID, status, reason, description string, adminID uint, points *int) (*models.Complaint, error) {
	complaint, err := s.complaintRepo.GetComplaintByID(complaintID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching complaint: %w", err)
	}

	if complaint.Status != models.ComplaintStatusPending {
		return nil, errs.ErrBadStatus
	}

	complaint.Status = status
	complaint.ResolutionReason = reason
	complaint.AdminDescription = description
	complaint.AdminID = adminID
	if points != nil {
		complaint.PointsAwarded = points
	}

	entry := &models.TimelineEntry{
		ComplaintID: complaint.ID,
		Action:      "status_update",
		Status:      status,
		Reason:      reason,
		Description: description,
		AdminID:     adminID,
	}
	action := &models.ActionHistory{
		AdminID:      adminID,
		Action:       models.ActionUpdateComplaint,
		ResourceType: "complaint",
		ResourceID:   complaint.ID.String(),
		Details:      models.MarshalDetails(map[string]interface{}{"status": status}),
	}

	var award func(tx *gorm.DB) error
	if points != nil && !complaint.IsAnonymous() {
		userID := *complaint.UserID
		awarded := *points
		award = func(tx *gorm.DB) error {
			return s.pointsService.AwardPointsIn(tx, userID, awarded, models.PointsSourceComplaintApproval, complaint.ID.String())
		}
	}

	if err := s.complaintRepo.Transition(complaint, entry, action, award); err != nil {
		if errors.Is(err, db.ErrNotPending) {
			return nil, errs.ErrBadStatus
		}
		return nil, fmt.Errorf("error updating complaint status: %w", err)
	}

	if !complaint.IsAnonymous() {
		go s.notifyOwner(complaint)
	}
	return complaint, nil
}

// notifyOwner delivers the status change over every side channel the owning
// user has: push tokens, email and the real-time channel. Errors here are
// logged and swallowed.
func (s *complaintService) notifyOwner(complaint *models.Complaint) {
	defer func() {
		if r := recover(); r != nil {
			logging.Sugar.Errorw("panic notifying complaint owner", "complaint_id", complaint.ID, "panic", r)
		}
	}()

	user, err := s.userRepo.FindUserByID(*complaint.UserID)
	if err != nil {
		logging.Sugar.Warnw("loading complaint owner for notification failed",
			"complaint_id", complaint.ID, "user_id", *complaint.UserID, "error", err)
		return
	}

	title := "Complaint update"
	body := fmt.Sprintf("Your complaint %q is now %s", complaint.Subject, complaint.Status)

	if err := s.userRepo.SaveNotification(&models.Notification{
		UserID:  user.ID,
		Title:   title,
		Message: body,
	}); err != nil {
		logging.Sugar.Warnw("saving notification failed", "user_id", user.ID, "error", err)
	}

	if s.dispatcher != nil {
		tokens, err := s.userRepo.GetDeviceTokens(user.ID)
		if err != nil {
			logging.Sugar.Warnw("loading device tokens failed", "user_id", user.ID, "error", err)
		}
		for _, t := range tokens {
			if err := s.dispatcher.SendPushNotification(t.Token, title, body); err != nil {
				logging.Sugar.Warnw("push dispatch failed", "user_id", user.ID, "platform", t.Platform, "error", err)
			}
		}
	}

	if s.mail != nil && user.Email != "" {
		if err := s.mail.SendEmail(user.Email, title, body); err != nil {
			logging.Sugar.Warnw("resolution email failed", "user_id", user.ID, "error", err)
		}
	}

	s.publisher.Publish(realtime.UserChannel(user.ID), "complaint_update", map[string]interface{}{
		"complaint_id":   complaint.ID,
		"status":         complaint.Status,
		"reason":         complaint.ResolutionReason,
		"points_awarded": complaint.PointsAwarded,
	})
}
