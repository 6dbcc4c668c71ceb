package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

type ComplaintRepository interface {
	SaveComplaint(complaint *models.Complaint) (*models.Complaint, error)
	GetComplaintByID(id uuid.UUID) (*models.Complaint, error)
	GetAllComplaints(page int) ([]models.Complaint, error)
	GetComplaintsByStatus(status string, page int) ([]models.Complaint, error)
	GetComplaintsByUserID(userID uint, page int) ([]models.Complaint, error)
	SaveAttachment(attachment *models.Attachment) error
	// Transition persists a status change, its timeline entry and its audit
	// record in a single transaction. The update only applies while the
	// complaint is still pending; a lost race returns ErrNotPending. extra
	// runs inside the same transaction and may be nil.
	Transition(complaint *models.Complaint, entry *models.TimelineEntry, action *models.ActionHistory, extra func(tx *gorm.DB) error) error
}

// ErrNotPending is returned when a conditional status update targets a record
// that has already left the pending state.
var ErrNotPending = errors.New("record is not pending")

const complaintPageSize = 20

type complaintRepo struct {
	DB *gorm.DB
}

func NewComplaintRepo(db *GormDB) ComplaintRepository {
	return &complaintRepo{db.DB}
}

func (r *complaintRepo) SaveComplaint(complaint *models.Complaint) (*models.Complaint, error) {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	if err := r.DB.Create(complaint).Error; err != nil {
		return nil, errors.Wrap(err, "could not create complaint")
	}
	return complaint, nil
}

func (r *complaintRepo) GetComplaintByID(id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.DB.Preload("Timeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("timeline_entries.created_at ASC")
	}).Preload("Attachments").Where("id = ?", id).First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepo) GetAllComplaints(page int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	offset := (page - 1) * complaintPageSize
	err := r.DB.Order("created_at DESC").Offset(offset).Limit(complaintPageSize).Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) GetComplaintsByStatus(status string, page int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	offset := (page - 1) * complaintPageSize
	err := r.DB.Where("status = ?", status).
		Order("created_at DESC").Offset(offset).Limit(complaintPageSize).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) GetComplaintsByUserID(userID uint, page int) ([]models.Complaint, error) {
	var complaints []models.Complaint
	offset := (page - 1) * complaintPageSize
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(complaintPageSize).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *complaintRepo) SaveAttachment(attachment *models.Attachment) error {
	return r.DB.Create(attachment).Error
}

func (r *complaintRepo) Transition(complaint *models.Complaint, entry *models.TimelineEntry, action *models.ActionHistory, extra func(tx *gorm.DB) error) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		// The status predicate makes the transition conditional so two racing
		// admins cannot both move the same complaint out of pending.
		result := tx.Model(&models.Complaint{}).
			Where("id = ? AND status = ?", complaint.ID, models.ComplaintStatusPending).
			Updates(map[string]interface{}{
				"status":            complaint.Status,
				"resolution_reason": complaint.ResolutionReason,
				"admin_description": complaint.AdminDescription,
				"admin_id":          complaint.AdminID,
				"points_awarded":    complaint.PointsAwarded,
			})
		if result.Error != nil {
			return errors.Wrap(result.Error, "updating complaint")
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}
		if err := tx.Create(entry).Error; err != nil {
			return errors.Wrap(err, "appending timeline entry")
		}
		if err := tx.Create(action).Error; err != nil {
			return errors.Wrap(err, "appending action history")
		}
		if extra != nil {
			return extra(tx)
		}
		return nil
	})
}
