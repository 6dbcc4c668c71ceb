package db

import (
	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

type ActionHistoryRepository interface {
	SaveAction(action *models.ActionHistory) error
	GetActionsByAdminID(adminID uint, page int) ([]models.ActionHistory, error)
	GetActionsByResource(resourceType, resourceID string) ([]models.ActionHistory, error)
}

const actionPageSize = 50

type actionRepo struct {
	DB *gorm.DB
}

func NewActionHistoryRepo(db *GormDB) ActionHistoryRepository {
	return &actionRepo{db.DB}
}

func (a *actionRepo) SaveAction(action *models.ActionHistory) error {
	return a.DB.Create(action).Error
}

func (a *actionRepo) GetActionsByAdminID(adminID uint, page int) ([]models.ActionHistory, error) {
	var actions []models.ActionHistory
	offset := (page - 1) * actionPageSize
	err := a.DB.Where("admin_id = ?", adminID).
		Order("created_at DESC").Offset(offset).Limit(actionPageSize).
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

func (a *actionRepo) GetActionsByResource(resourceType, resourceID string) ([]models.ActionHistory, error) {
	var actions []models.ActionHistory
	err := a.DB.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at ASC").Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}
