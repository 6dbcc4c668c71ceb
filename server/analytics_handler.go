package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultLookbackDays = 30

func lookbackDays(c *gin.Context) int {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 {
		return defaultLookbackDays
	}
	return days
}

func (s *Server) handleGetComplaintAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := s.AnalyticsService.GetComplaintAnalytics(c.Request.Context(), lookbackDays(c))
		if err != nil {
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		respond(c, "complaint analytics", http.StatusOK, analytics, nil)
	}
}

func (s *Server) handleGetUserAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := s.AnalyticsService.GetUserAnalytics(c.Request.Context(), lookbackDays(c))
		if err != nil {
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		respond(c, "user analytics", http.StatusOK, analytics, nil)
	}
}

func (s *Server) handleGetWithdrawalAnalytics() gin.HandlerFunc {
	return func(c *gin.Context) {
		analytics, err := s.AnalyticsService.GetWithdrawalAnalytics(c.Request.Context())
		if err != nil {
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		respond(c, "withdrawal analytics", http.StatusOK, analytics, nil)
	}
}
