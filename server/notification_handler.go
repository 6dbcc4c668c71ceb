package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	errs "github.com/techagentng/complaintx/errors"
	"gorm.io/gorm"
)

func (s *Server) handleGetNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		notifications, err := s.UserRepository.GetNotifications(userID)
		if err != nil {
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		respond(c, "notifications", http.StatusOK, notifications, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		notificationID, err := strconv.ParseUint(c.Param("notificationID"), 10, 64)
		if err != nil {
			respond(c, "invalid notification id", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.UserRepository.MarkNotificationRead(userID, uint(notificationID)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respond(c, "notification not found", http.StatusNotFound, nil, errs.ErrNotFound)
				return
			}
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		respond(c, "notification read", http.StatusOK, nil, nil)
	}
}
