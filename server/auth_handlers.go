package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/models"
)

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		user, err := s.AuthService.SignupUser(&req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "signup successful", http.StatusCreated, user.Response(), nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		login, err := s.AuthService.LoginUser(&req)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "login successful", http.StatusOK, login, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("user")
		if !ok {
			respond(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServer)
			return
		}
		user := v.(*models.User)
		respond(c, "profile", http.StatusOK, user.Response(), nil)
	}
}

func (s *Server) handleRegisterDeviceToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respond(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var req models.RegisterTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		if err := s.AuthService.RegisterDeviceToken(userID, &req); err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "device token registered", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetAllUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.UserRepository.GetAllUsers()
		if err != nil {
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		out := make([]models.UserResponse, 0, len(users))
		for i := range users {
			out = append(out, users[i].Response())
		}
		respond(c, "users", http.StatusOK, out, nil)
	}
}

// respondServiceError maps service errors to HTTP responses
func respondServiceError(c *gin.Context, err error) {
	var appErr *errs.Error
	if errors.As(err, &appErr) {
		respond(c, appErr.Message, appErr.Status, nil, appErr)
		return
	}
	respond(c, "", http.StatusInternalServerError, nil, err)
}
