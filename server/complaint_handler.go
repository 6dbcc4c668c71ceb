package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/techagentng/complaintx/logging"
	"github.com/techagentng/complaintx/models"
)

func (s *Server) handleCreateComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CreateComplaintRequest
		if err := c.ShouldBind(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}
		if err := models.ConformInput(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		var userID *uint
		if id, ok := currentUserID(c); ok {
			userID = &id
		}

		complaint, err := s.ComplaintService.CreateComplaint(userID, &req)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		// Photo attachments are optional multipart files.
		if form, err := c.MultipartForm(); err == nil && form != nil {
			for _, fileHeader := range form.File["attachments"] {
				if _, err := s.MediaService.ProcessAttachment(fileHeader, complaint.ID); err != nil {
					logging.Sugar.Warnw("processing attachment failed",
						"complaint_id", complaint.ID, "filename", fileHeader.Filename, "error", err)
				}
			}
		}

		respond(c, "complaint submitted", http.StatusCreated, complaint, nil)
	}
}

func (s *Server) handleGetComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaintID, err := uuid.Parse(c.Param("complaintID"))
		if err != nil {
			respond(c, "invalid complaint id", http.StatusBadRequest, nil, err)
			return
		}

		complaint, err := s.ComplaintService.GetComplaint(complaintID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "complaint", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleGetMyComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := currentUserID(c)
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		complaints, err := s.ComplaintService.ListUserComplaints(userID, page)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "complaints", http.StatusOK, complaints, nil)
	}
}

func (s *Server) handleListComplaints() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		status := c.Query("status")

		complaints, err := s.ComplaintService.ListComplaints(status, page)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "complaints", http.StatusOK, complaints, nil)
	}
}

func (s *Server) handleUpdateComplaintStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaintID, err := uuid.Parse(c.Param("complaintID"))
		if err != nil {
			respond(c, "invalid complaint id", http.StatusBadRequest, nil, err)
			return
		}

		var req models.UpdateComplaintStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		adminID, _ := currentUserID(c)
		complaint, err := s.ComplaintService.UpdateComplaintStatus(complaintID, req.Status, req.Reason, req.Description, adminID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "complaint updated", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleApproveComplaint() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaintID, err := uuid.Parse(c.Param("complaintID"))
		if err != nil {
			respond(c, "invalid complaint id", http.StatusBadRequest, nil, err)
			return
		}

		var req models.ApproveComplaintRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond(c, "invalid request", http.StatusBadRequest, nil, err)
			return
		}

		adminID, _ := currentUserID(c)
		complaint, err := s.ComplaintService.ApproveComplaint(complaintID, req.Points, req.Reason, req.Description, adminID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		respond(c, "complaint approved", http.StatusOK, complaint, nil)
	}
}

func (s *Server) handleGetComplaintActions() gin.HandlerFunc {
	return func(c *gin.Context) {
		complaintID := c.Param("complaintID")
		actions, err := s.ActionRepository.GetActionsByResource("complaint", complaintID)
		if err != nil {
			respond(c, "", http.StatusInternalServerError, nil, err)
			return
		}
		respond(c, "actions", http.StatusOK, actions, nil)
	}
}
