package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/complaintx/models"
)

func (s *Server) handleRequestWithdrawal() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)

		var req models.CreateWithdrawalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}
		if err := models.ConformInput(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		withdrawal, err := s.WithdrawalService.RequestWithdrawal(userID, &req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "withdrawal requested", http.StatusCreated, withdrawal, nil)
	}
}

func (s *Server) handleGetMyWithdrawals() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		withdrawals, err := s.WithdrawalService.ListUserWithdrawals(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "withdrawals", http.StatusOK, withdrawals, nil)
	}
}

func (s *Server) handleListWithdrawals() gin.HandlerFunc {
	return func(c *gin.Context) {
		withdrawals, err := s.WithdrawalService.ListWithdrawalsByStatus(c.Query("status"))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "withdrawals", http.StatusOK, withdrawals, nil)
	}
}

func (s *Server) handleProcessWithdrawal(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		withdrawalID, err := strconv.ParseUint(c.Param("withdrawalID"), 10, 64)
		if err != nil {
			respond(c, "invalid withdrawal id", http.StatusBadRequest, nil, err)
			return
		}

		adminID, _ := currentUserID(c)
		withdrawal, err := s.WithdrawalService.ProcessWithdrawal(uint(withdrawalID), approve, adminID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "withdrawal processed", http.StatusOK, withdrawal, nil)
	}
}
