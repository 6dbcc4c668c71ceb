package models

import "encoding/json"

// Admin action kinds recorded in the global audit log
const (
	ActionUpdateComplaint   = "update_complaint"
	ActionApproveWithdrawal = "approve_withdrawal"
	ActionRejectWithdrawal  = "reject_withdrawal"
)

// ActionHistory is an append-only audit record of one admin-initiated action
type ActionHistory struct {
	Model
	AdminID      uint   `json:"admin_id" gorm:"index;not null"`
	Action       string `json:"action" gorm:"not null"`
	ResourceType string `json:"resource_type"`
	ResourceID   string `json:"resource_id" gorm:"index"`
	Details      []byte `json:"details" gorm:"type:jsonb"`
}

// MarshalDetails encodes the free-form detail payload for storage
func MarshalDetails(details map[string]interface{}) []byte {
	b, err := json.Marshal(details)
	if err != nil {
		return []byte("{}")
	}
	return b
}
