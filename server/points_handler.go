package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleGetMyPoints() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)

		balance, err := s.PointsService.GetBalance(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		history, err := s.PointsService.GetHistory(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		respond(c, "points", http.StatusOK, gin.H{
			"balance": balance,
			"history": history,
		}, nil)
	}
}
