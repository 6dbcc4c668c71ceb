package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/techagentng/complaintx/config"
	"github.com/techagentng/complaintx/db"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/mailingservices"
	"github.com/techagentng/complaintx/realtime"
	"github.com/techagentng/complaintx/server/response"
	"github.com/techagentng/complaintx/services"
	"go.uber.org/zap"
)

type Server struct {
	Config               *config.Config
	Mail                 *mailingservices.Mailgun
	Hub                  *realtime.Hub
	UserRepository       db.UserRepository
	ComplaintRepository  db.ComplaintRepository
	PointsRepository     db.PointsRepository
	ActionRepository     db.ActionHistoryRepository
	WithdrawalRepository db.WithdrawalRepository
	AuthService          services.AuthService
	ComplaintService     services.ComplaintService
	PointsService        services.PointsService
	WithdrawalService    services.WithdrawalService
	AnalyticsService     services.AnalyticsService
	MediaService         services.MediaService
}

// Start runs the HTTP server until an interrupt, then shuts down gracefully
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		logging.Logger.Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("listen error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Fatal("forced shutdown", zap.Error(err))
	}
	logging.Logger.Info("server exited")
}

func respond(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}
