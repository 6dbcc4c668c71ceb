package db

import (
	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

type WithdrawalRepository interface {
	SaveWithdrawal(withdrawal *models.Withdrawal) error
	GetWithdrawalByID(id uint) (*models.Withdrawal, error)
	GetWithdrawalsByUserID(userID uint) ([]models.Withdrawal, error)
	GetWithdrawalsByStatus(status string) ([]models.Withdrawal, error)
	UpdateWithdrawal(withdrawal *models.Withdrawal) error
	// Process persists the status change of a pending withdrawal together
	// with any extra writes in one transaction. A withdrawal that already
	// left pending returns ErrNotPending. extra may be nil.
	Process(withdrawal *models.Withdrawal, extra func(tx *gorm.DB) error) error
}

type withdrawalRepo struct {
	DB *gorm.DB
}

func NewWithdrawalRepo(db *GormDB) WithdrawalRepository {
	return &withdrawalRepo{db.DB}
}

func (w *withdrawalRepo) SaveWithdrawal(withdrawal *models.Withdrawal) error {
	return w.DB.Create(withdrawal).Error
}

func (w *withdrawalRepo) GetWithdrawalByID(id uint) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := w.DB.First(&withdrawal, id).Error; err != nil {
		return nil, err
	}
	return &withdrawal, nil
}

func (w *withdrawalRepo) GetWithdrawalsByUserID(userID uint) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := w.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (w *withdrawalRepo) GetWithdrawalsByStatus(status string) ([]models.Withdrawal, error) {
	var withdrawals []models.Withdrawal
	err := w.DB.Where("status = ?", status).Order("created_at ASC").Find(&withdrawals).Error
	if err != nil {
		return nil, err
	}
	return withdrawals, nil
}

func (w *withdrawalRepo) UpdateWithdrawal(withdrawal *models.Withdrawal) error {
	return w.DB.Save(withdrawal).Error
}

func (w *withdrawalRepo) Process(withdrawal *models.Withdrawal, extra func(tx *gorm.DB) error) error {
	return w.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Withdrawal{}).
			Where("id = ? AND status = ?", withdrawal.ID, models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":       withdrawal.Status,
				"processed_by": withdrawal.ProcessedBy,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}
		if extra != nil {
			return extra(tx)
		}
		return nil
	})
}
