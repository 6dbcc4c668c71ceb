package models

import (
	"time"

	"github.com/google/uuid"
)

// Complaint statuses. A complaint starts pending and ends approved or rejected;
// no further transitions are modeled.
const (
	ComplaintStatusPending  = "pending"
	ComplaintStatusApproved = "approved"
	ComplaintStatusRejected = "rejected"
)

// Complaint is a citizen-submitted report tracked through a resolution lifecycle.
// A nil UserID means the complaint was submitted anonymously.
type Complaint struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	UserID           *uint           `json:"user_id" gorm:"index"`
	Category         string          `json:"category" gorm:"index"`
	Subject          string          `json:"subject"`
	Description      string          `json:"description" gorm:"type:varchar(1000)"`
	Address          string          `json:"address"`
	Status           string          `json:"status" gorm:"default:pending;index"`
	ResolutionReason string          `json:"resolution_reason"`
	AdminDescription string          `json:"admin_description"`
	AdminID          uint            `json:"admin_id"`
	PointsAwarded    *int            `json:"points_awarded"`
	Timeline         []TimelineEntry `json:"timeline" gorm:"foreignKey:ComplaintID"`
	Attachments      []Attachment    `json:"attachments" gorm:"foreignKey:ComplaintID"`
}

// TimelineEntry is one audit event embedded in a complaint's lifecycle
type TimelineEntry struct {
	Model
	ComplaintID uuid.UUID `json:"complaint_id" gorm:"type:uuid;index;not null"`
	Action      string    `json:"action"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason"`
	Description string    `json:"description"`
	AdminID     uint      `json:"admin_id"`
}

// Attachment is a media file submitted with a complaint
type Attachment struct {
	Model
	ComplaintID  uuid.UUID `json:"complaint_id" gorm:"type:uuid;index;not null"`
	FileType     string    `json:"file_type"`
	FileSize     int64     `json:"file_size"`
	Filename     string    `json:"file_name"`
	FileURL      string    `json:"file_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
}

type CreateComplaintRequest struct {
	Category    string `form:"category" binding:"required"`
	Subject     string `form:"subject" binding:"required,min=3" conform:"trim"`
	Description string `form:"description" binding:"required,min=10" conform:"trim"`
	Address     string `form:"address" conform:"trim"`
	Anonymous   bool   `form:"anonymous"`
}

type UpdateComplaintStatusRequest struct {
	Status      string `json:"status" binding:"required,oneof=approved rejected"`
	Reason      string `json:"reason" binding:"required" conform:"trim"`
	Description string `json:"description" conform:"trim"`
}

type ApproveComplaintRequest struct {
	Points      int    `json:"points" binding:"gte=0"`
	Reason      string `json:"reason" binding:"required" conform:"trim"`
	Description string `json:"description" conform:"trim"`
}

// IsAnonymous reports whether the complaint has no owning user
func (c *Complaint) IsAnonymous() bool {
	return c.UserID == nil
}
