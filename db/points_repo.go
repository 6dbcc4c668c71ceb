package db

import (
	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when a redeem would drive a balance negative
var ErrInsufficientBalance = errors.New("insufficient point balance")

type PointsRepository interface {
	ApplyMovement(userID uint, delta int, entry *models.PointsHistory) error
	// ApplyMovementIn is ApplyMovement running inside a caller-owned transaction,
	// for operations that fuse a ledger movement with other writes.
	ApplyMovementIn(tx *gorm.DB, userID uint, delta int, entry *models.PointsHistory) error
	GetUserBalance(userID uint) (int, error)
	GetHistoryByUserID(userID uint) ([]models.PointsHistory, error)
	SumEarnedPoints() (int64, error)
}

type pointsRepo struct {
	DB *gorm.DB
}

func NewPointsRepo(db *GormDB) PointsRepository {
	return &pointsRepo{db.DB}
}

// ApplyMovement atomically applies a signed balance change to the user and
// appends the matching history entry. The balance update is conditional: a
// negative delta only succeeds while the resulting balance stays non-negative,
// so concurrent movements cannot produce a lost update or a negative balance.
func (p *pointsRepo) ApplyMovement(userID uint, delta int, entry *models.PointsHistory) error {
	return p.DB.Transaction(func(tx *gorm.DB) error {
		return p.ApplyMovementIn(tx, userID, delta, entry)
	})
}

func (p *pointsRepo) ApplyMovementIn(tx *gorm.DB, userID uint, delta int, entry *models.PointsHistory) error {
	query := tx.Model(&models.User{}).Where("id = ?", userID)
	if delta < 0 {
		query = query.Where("points >= ?", -delta)
	}
	result := query.UpdateColumn("points", gorm.Expr("points + ?", delta))
	if result.Error != nil {
		return errors.Wrap(result.Error, "updating balance")
	}
	if result.RowsAffected == 0 {
		// Either the user does not exist or the redeem guard rejected it.
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "checking user existence")
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return ErrInsufficientBalance
	}

	if err := tx.Create(entry).Error; err != nil {
		return errors.Wrap(err, "appending points history")
	}
	return nil
}

func (p *pointsRepo) GetUserBalance(userID uint) (int, error) {
	var user models.User
	err := p.DB.Select("points").First(&user, userID).Error
	if err != nil {
		return 0, err
	}
	return user.Points, nil
}

func (p *pointsRepo) GetHistoryByUserID(userID uint) ([]models.PointsHistory, error) {
	var history []models.PointsHistory
	err := p.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&history).Error
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (p *pointsRepo) SumEarnedPoints() (int64, error) {
	var total int64
	err := p.DB.Model(&models.PointsHistory{}).
		Where("type = ?", models.PointsTypeEarned).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}
