package models

// Withdrawal statuses
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
)

// Withdrawal is a request to cash out earned points
type Withdrawal struct {
	Model
	UserID        uint   `json:"user_id" gorm:"index;not null"`
	Amount        int    `json:"amount" gorm:"not null"`
	Status        string `json:"status" gorm:"default:pending;index"`
	AccountNumber string `json:"account_number"`
	ProcessedBy   uint   `json:"processed_by"`
}

type CreateWithdrawalRequest struct {
	Amount        int    `json:"amount" binding:"required,gt=0"`
	AccountNumber string `json:"account_number" binding:"required" conform:"trim"`
}
