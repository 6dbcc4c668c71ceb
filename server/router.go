package server

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	apirouter := router.Group("/api/v1")
	apirouter.POST("/auth/signup", s.handleSignup())
	apirouter.POST("/auth/login", loginRateLimiter(), s.handleLogin())
	apirouter.POST("/complaints", s.AuthorizeOptional(), s.handleCreateComplaint())
	apirouter.GET("/complaints/:complaintID", s.handleGetComplaint())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.GET("/me", s.handleShowProfile())
	authorized.GET("/me/complaints", s.handleGetMyComplaints())
	authorized.GET("/me/points", s.handleGetMyPoints())
	authorized.POST("/me/withdrawals", s.handleRequestWithdrawal())
	authorized.GET("/me/withdrawals", s.handleGetMyWithdrawals())
	authorized.POST("/notifications/add-token", s.handleRegisterDeviceToken())
	authorized.GET("/notifications", s.handleGetNotifications())
	authorized.PUT("/notifications/:notificationID/read", s.handleMarkNotificationRead())
	authorized.GET("/ws", s.handleWebsocket())

	admin := apirouter.Group("/admin")
	admin.Use(s.Authorize(), s.AuthorizeAdmin())
	admin.GET("/complaints", s.handleListComplaints())
	admin.PUT("/complaints/:complaintID/status", s.handleUpdateComplaintStatus())
	admin.PUT("/complaints/:complaintID/approve", s.handleApproveComplaint())
	admin.GET("/complaints/:complaintID/actions", s.handleGetComplaintActions())
	admin.GET("/withdrawals", s.handleListWithdrawals())
	admin.PUT("/withdrawals/:withdrawalID/approve", s.handleProcessWithdrawal(true))
	admin.PUT("/withdrawals/:withdrawalID/reject", s.handleProcessWithdrawal(false))
	admin.GET("/analytics/complaints", s.handleGetComplaintAnalytics())
	admin.GET("/analytics/users", s.handleGetUserAnalytics())
	admin.GET("/analytics/withdrawals", s.handleGetWithdrawalAnalytics())
	admin.GET("/users", s.handleGetAllUsers())
}
