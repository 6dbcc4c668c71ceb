package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	errs "github.com/techagentng/complaintx/errors"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are already filtered by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWebsocket subscribes the authenticated user to their own channel for
// real-time complaint and withdrawal updates
func (s *Server) handleWebsocket() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			respond(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if s.Hub == nil {
			respond(c, "real-time channel unavailable", http.StatusServiceUnavailable, nil, nil)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Sugar.Warnw("websocket upgrade failed", "user_id", userID, "error", err)
			return
		}
		s.Hub.Subscribe(realtime.UserChannel(userID), conn)
	}
}
