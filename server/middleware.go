package server

import (
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/models"
	"github.com/techagentng/complaintx/services/jwt"
	"gorm.io/gorm"
)

// Authorize resolves the bearer token to an active user and stores it on the
// request context
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var userID uint
		switch v := accessClaims["id"].(type) {
		case float64:
			userID = uint(v)
		default:
			respondAndAbort(c, "", http.StatusBadRequest, nil, errs.New("invalid userID format", http.StatusBadRequest))
			return
		}

		user, err := s.UserRepository.FindUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				respondAndAbort(c, "user not found", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			default:
				respondAndAbort(c, "unable to find entity", http.StatusInternalServerError, nil, errs.ErrInternalServer)
			}
			return
		}
		if !user.Active {
			respondAndAbort(c, "inactive user", http.StatusUnauthorized, nil, errs.InActiveUserError)
			return
		}

		c.Set("user", user)
		c.Set("userID", userID)
		c.Set("userRole", user.Role.Name)
		c.Next()
	}
}

// AuthorizeOptional attaches the user when a valid token is present but lets
// anonymous requests through. Used for complaint submission.
func (s *Server) AuthorizeOptional() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			c.Next()
			return
		}
		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			c.Next()
			return
		}
		if v, ok := accessClaims["id"].(float64); ok {
			if user, err := s.UserRepository.FindUserByID(uint(v)); err == nil && user.Active {
				c.Set("user", user)
				c.Set("userID", uint(v))
				c.Set("userRole", user.Role.Name)
			}
		}
		c.Next()
	}
}

// AuthorizeAdmin restricts a route group to admins. Must run after Authorize.
func (s *Server) AuthorizeAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("userRole")
		if !ok || role != models.RoleAdmin {
			respondAndAbort(c, "admin access required", http.StatusForbidden, nil, errs.New("forbidden", http.StatusForbidden))
			return
		}
		c.Next()
	}
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	userID, ok := v.(uint)
	return userID, ok
}

// loginRateLimiter throttles credential attempts per client IP
func loginRateLimiter() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: 10,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      keyFunc,
	})
}

func keyFunc(c *gin.Context) string {
	return c.ClientIP()
}
