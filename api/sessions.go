package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/service/session"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	service session.SessionUseCase
}

type startSessionRequest struct {
	UserID    int64      `json:"user_id"`
	StartTime *time.Time `json:"start_time"`
}

type endSessionRequest struct {
	EndTime *time.Time `json:"end_time"`
}

type sessionResponse struct {
	ID        int64   `json:"session_id"`
	UserID    int64   `json:"user_id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

func NewSessionHandler(service session.SessionUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Register(staff *gin.RouterGroup) {
	staff.POST("/sessions", h.start)
	staff.POST("/sessions/:id/end", h.end)
	staff.GET("/sessions", h.list)
	staff.GET("/users/:id/session", h.active)
}

func (h *SessionHandler) start(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startTime := time.Now()
	if req.StartTime != nil {
		startTime = *req.StartTime
	}

	created, err := h.service.StartSession(c.Request.Context(), req.UserID, startTime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionResponse(created))
}

func (h *SessionHandler) end(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	// Body is optional; an empty body means "close now".
	var req endSessionRequest
	_ = c.ShouldBindJSON(&req)
	endTime := time.Now()
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	closed, err := h.service.EndSession(c.Request.Context(), id, endTime)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(closed))
}

func (h *SessionHandler) active(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	active, err := h.service.GetActiveSession(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	if active == nil {
		c.JSON(http.StatusOK, gin.H{"session": nil})
		return
	}
	c.JSON(http.StatusOK, toSessionResponse(active))
}

func (h *SessionHandler) list(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionResponse(&s))
	}
	c.JSON(http.StatusOK, out)
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		StartTime: s.StartTime.Format(time.RFC3339),
	}
	if s.EndTime != nil {
		end := s.EndTime.Format(time.RFC3339)
		resp.EndTime = &end
	}
	return resp
}
