package services

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/models"
	"gorm.io/gorm"
)

// PointsService maintains user point balances and their append-only movement
// history. Every movement is one atomic balance mutation plus one history
// append; movements for the same user are serialized.
type PointsService interface {
	AwardPoints(userID uint, points int, source, referenceID string) error
	// AwardPointsIn runs the award inside a caller-owned transaction so a
	// larger operation can fuse it with its own writes.
	AwardPointsIn(tx *gorm.DB, userID uint, points int, source, referenceID string) error
	RedeemPoints(userID uint, points int, source, referenceID string) error
	GetBalance(userID uint) (int, error)
	GetHistory(userID uint) ([]models.PointsHistory, error)
}

type pointsService struct {
	Config     *config.Config
	pointsRepo db.PointsRepository

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewPointsService(pointsRepo db.PointsRepository, conf *config.Config) PointsService {
	return &pointsService{
		Config:     conf,
		pointsRepo: pointsRepo,
		locks:      make(map[uint]*sync.Mutex),
	}
}

// lockUser serializes ledger movements per user to prevent lost updates under
// concurrent access. Returns the unlock func.
func (s *pointsService) lockUser(userID uint) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func (s *pointsService) AwardPoints(userID uint, points int, source, referenceID string) error {
	if points < 0 {
		return errs.ErrInvalidPoints
	}
	unlock := s.lockUser(userID)
	defer unlock()

	entry := movementEntry(userID, models.PointsTypeEarned, points, source, referenceID)
	if err := s.pointsRepo.ApplyMovement(userID, points, entry); err != nil {
		return translateLedgerErr(err)
	}
	return nil
}

func (s *pointsService) AwardPointsIn(tx *gorm.DB, userID uint, points int, source, referenceID string) error {
	if points < 0 {
		return errs.ErrInvalidPoints
	}
	unlock := s.lockUser(userID)
	defer unlock()

	entry := movementEntry(userID, models.PointsTypeEarned, points, source, referenceID)
	if err := s.pointsRepo.ApplyMovementIn(tx, userID, points, entry); err != nil {
		return translateLedgerErr(err)
	}
	return nil
}

func (s *pointsService) RedeemPoints(userID uint, points int, source, referenceID string) error {
	if points < 0 {
		return errs.ErrInvalidPoints
	}
	unlock := s.lockUser(userID)
	defer unlock()

	entry := movementEntry(userID, models.PointsTypeRedeemed, -points, source, referenceID)
	if err := s.pointsRepo.ApplyMovement(userID, -points, entry); err != nil {
		return translateLedgerErr(err)
	}
	return nil
}

func (s *pointsService) GetBalance(userID uint) (int, error) {
	balance, err := s.pointsRepo.GetUserBalance(userID)
	if err != nil {
		return 0, translateLedgerErr(err)
	}
	return balance, nil
}

func (s *pointsService) GetHistory(userID uint) ([]models.PointsHistory, error) {
	history, err := s.pointsRepo.GetHistoryByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("error getting points history: %w", err)
	}
	return history, nil
}

func movementEntry(userID uint, movementType string, delta int, source, referenceID string) *models.PointsHistory {
	return &models.PointsHistory{
		UserID:      userID,
		Type:        movementType,
		Points:      delta,
		Description: movementDescription(movementType, source),
		Source:      source,
		ReferenceID: referenceID,
	}
}

func movementDescription(movementType, source string) string {
	switch source {
	case models.PointsSourceComplaintApproval:
		return "Points earned for an approved complaint"
	case models.PointsSourceWithdrawal:
		return "Points redeemed for a withdrawal request"
	case models.PointsSourceAdminAdjustment:
		return "Points adjusted by an administrator"
	default:
		return fmt.Sprintf("Points %s (%s)", movementType, source)
	}
}

func translateLedgerErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.ErrUserNotFound
	case errors.Is(err, db.ErrInsufficientBalance):
		return errs.ErrLowBalance
	default:
		return err
	}
}
