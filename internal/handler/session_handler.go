package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/miguel-sanchez/PomodoroPal/internal/middleware"
	"github.com/miguel-sanchez/PomodoroPal/internal/service"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

type createSessionRequest struct {
	SessionType     string `json:"session_type"`
	DurationMinutes int    `json:"duration_minutes"`
	Completed       bool   `json:"completed"`
	StartedAt       string `json:"started_at"`
	EndedAt         string `json:"ended_at"`
}

type updateSessionRequest struct {
	Completed *bool   `json:"completed"`
	EndedAt   *string `json:"ended_at"`
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadJSON(c)
		return
	}

	// Anonymous unless the agent attached a valid token.
	var userID *string
	if id := middleware.UserID(c); id != "" {
		userID = &id
	}

	session, apiErr := h.sessionService.Create(c.Request.Context(), userID, service.CreateSessionInput{
		SessionType:     req.SessionType,
		DurationMinutes: req.DurationMinutes,
		Completed:       req.Completed,
		StartedAt:       req.StartedAt,
		EndedAt:         req.EndedAt,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "session": session})
}

func (h *SessionHandler) List(c *gin.Context) {
	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		if parsed, err := strconv.Atoi(rawLimit); err == nil {
			limit = parsed
		}
	}

	sessions, apiErr := h.sessionService.List(c.Request.Context(), limit)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sessions": sessions,
		"count":    len(sessions),
	})
}

func (h *SessionHandler) Update(c *gin.Context) {
	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadJSON(c)
		return
	}

	session, apiErr := h.sessionService.Update(c.Request.Context(), c.Param("id"), service.UpdateSessionInput{
		Completed: req.Completed,
		EndedAt:   req.EndedAt,
	})
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

func (h *SessionHandler) Stats(c *gin.Context) {
	stats, apiErr := h.sessionService.Stats(c.Request.Context())
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}
