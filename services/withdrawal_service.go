package services

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/models"
	"github.com/techagentng/complaintx/realtime"
	"gorm.io/gorm"
)

// WithdrawalService lets users cash out earned points. Requesting a
// withdrawal redeems the points up front; rejecting it refunds them.
type WithdrawalService interface {
	RequestWithdrawal(userID uint, req *models.CreateWithdrawalRequest) (*models.Withdrawal, error)
	ListUserWithdrawals(userID uint) ([]models.Withdrawal, error)
	ListWithdrawalsByStatus(status string) ([]models.Withdrawal, error)
	ProcessWithdrawal(withdrawalID uint, approve bool, adminID uint) (*models.Withdrawal, error)
}

type withdrawalService struct {
	Config         *config.Config
	withdrawalRepo db.WithdrawalRepository
	actionRepo     db.ActionHistoryRepository
	pointsService  PointsService
	publisher      realtime.Publisher
}

func NewWithdrawalService(
	withdrawalRepo db.WithdrawalRepository,
	actionRepo db.ActionHistoryRepository,
	pointsService PointsService,
	publisher realtime.Publisher,
	conf *config.Config,
) WithdrawalService {
	if publisher == nil {
		publisher = realtime.NopPublisher{}
	}
	return &withdrawalService{
		Config:         conf,
		withdrawalRepo: withdrawalRepo,
		actionRepo:     actionRepo,
		pointsService:  pointsService,
		publisher:      publisher,
	}
}

func (s *withdrawalService) RequestWithdrawal(userID uint, req *models.CreateWithdrawalRequest) (*models.Withdrawal, error) {
	withdrawal := &models.Withdrawal{
		UserID:        userID,
		Amount:        req.Amount,
		Status:        models.WithdrawalStatusPending,
		AccountNumber: req.AccountNumber,
	}
	if err := s.withdrawalRepo.SaveWithdrawal(withdrawal); err != nil {
		return nil, fmt.Errorf("error creating withdrawal: %w", err)
	}

	// Redeem immediately so a pending withdrawal cannot be double-spent. The
	// redeem guard rejects requests exceeding the balance.
	ref := strconv.FormatUint(uint64(withdrawal.ID), 10)
	if err := s.pointsService.RedeemPoints(userID, req.Amount, models.PointsSourceWithdrawal, ref); err != nil {
		withdrawal.Status = models.WithdrawalStatusRejected
		if uerr := s.withdrawalRepo.UpdateWithdrawal(withdrawal); uerr != nil {
			logging.Sugar.Errorw("marking unfunded withdrawal rejected failed",
				"withdrawal_id", withdrawal.ID, "error", uerr)
		}
		return nil, err
	}
	return withdrawal, nil
}

func (s *withdrawalService) ListUserWithdrawals(userID uint) ([]models.Withdrawal, error) {
	return s.withdrawalRepo.GetWithdrawalsByUserID(userID)
}

func (s *withdrawalService) ListWithdrawalsByStatus(status string) ([]models.Withdrawal, error) {
	if status == "" {
		status = models.WithdrawalStatusPending
	}
	return s.withdrawalRepo.GetWithdrawalsByStatus(status)
}

// ProcessWithdrawal approves or rejects a pending withdrawal. Rejection
// refunds the redeemed points in the same transaction as the status change,
// so a failed refund leaves the withdrawal pending.
func (s *withdrawalService) ProcessWithdrawal(withdrawalID uint, approve bool, adminID uint) (*models.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetWithdrawalByID(withdrawalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	if withdrawal.Status != models.WithdrawalStatusPending {
		return nil, errs.ErrBadStatus
	}

	action := models.ActionRejectWithdrawal
	withdrawal.Status = models.WithdrawalStatusRejected
	if approve {
		action = models.ActionApproveWithdrawal
		withdrawal.Status = models.WithdrawalStatusApproved
	}
	withdrawal.ProcessedBy = adminID

	ref := strconv.FormatUint(uint64(withdrawal.ID), 10)
	var refund func(tx *gorm.DB) error
	if !approve {
		userID := withdrawal.UserID
		amount := withdrawal.Amount
		refund = func(tx *gorm.DB) error {
			return s.pointsService.AwardPointsIn(tx, userID, amount, models.PointsSourceWithdrawal, ref)
		}
	}

	if err := s.withdrawalRepo.Process(withdrawal, refund); err != nil {
		if errors.Is(err, db.ErrNotPending) {
			return nil, errs.ErrBadStatus
		}
		return nil, fmt.Errorf("error processing withdrawal: %w", err)
	}

	if err := s.actionRepo.SaveAction(&models.ActionHistory{
		AdminID:      adminID,
		Action:       action,
		ResourceType: "withdrawal",
		ResourceID:   ref,
		Details:      models.MarshalDetails(map[string]interface{}{"status": withdrawal.Status, "amount": withdrawal.Amount}),
	}); err != nil {
		logging.Sugar.Warnw("recording withdrawal action failed", "withdrawal_id", withdrawal.ID, "error", err)
	}

	s.publisher.Publish(realtime.UserChannel(withdrawal.UserID), "withdrawal_update", map[string]interface{}{
		"withdrawal_id": withdrawal.ID,
		"status":        withdrawal.Status,
		"amount":        withdrawal.Amount,
	})
	return withdrawal, nil
}
