package models

// Point movement types
const (
	PointsTypeEarned   = "earned"
	PointsTypeRedeemed = "redeemed"
)

// Point movement sources
const (
	PointsSourceComplaintApproval = "complaint_approval"
	PointsSourceWithdrawal        = "withdrawal"
	PointsSourceAdminAdjustment   = "admin_adjustment"
)

// PointsHistory is one immutable ledger movement. Points carries the signed
// delta applied to the owning user's balance.
type PointsHistory struct {
	Model
	UserID      uint   `json:"user_id" gorm:"index;not null"`
	Type        string `json:"type" gorm:"not null"`
	Points      int    `json:"points" gorm:"not null"`
	Description string `json:"description"`
	Source      string `json:"source" gorm:"index"`
	ReferenceID string `json:"reference_id"`
}
