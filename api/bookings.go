package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/anticafe/internal/domain"
	"github.com/Domenick1991/anticafe/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service   booking.BookingUseCase
	openHour  int
	closeHour int
}

type createBookingRequest struct {
	UserID     int64     `json:"user_id"`
	ResourceID int64     `json:"resource_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	Status     string    `json:"status"`
}

type bookingResponse struct {
	ID         int64  `json:"booking_id"`
	UserID     int64  `json:"user_id"`
	ResourceID int64  `json:"resource_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Status     string `json:"status"`
}

type timeWindowResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func NewBookingHandler(service booking.BookingUseCase, openHour, closeHour int) *BookingHandler {
	return &BookingHandler{service: service, openHour: openHour, closeHour: closeHour}
}

func (h *BookingHandler) Register(anyRole, staff *gin.RouterGroup) {
	anyRole.POST("/bookings", h.create)
	anyRole.GET("/bookings/my", h.listMine)
	anyRole.GET("/resources/:id/schedule", h.schedule)
	anyRole.GET("/resources/:id/free-windows", h.freeWindows)
	staff.GET("/users/:id/bookings", h.listForUser)
	staff.POST("/bookings/:id/cancel", h.cancel)
	staff.POST("/bookings/:id/complete", h.complete)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Clients book for themselves; staff may book on a client's behalf by
	// passing the user id explicitly.
	userID := req.UserID
	if userID == 0 {
		userID = currentUserID(c)
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:     userID,
		ResourceID: req.ResourceID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Status:     domain.BookingStatus(req.Status),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	updated, err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	updated, err := h.service.CompleteBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(updated))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	h.writeUserBookings(c, currentUserID(c))
}

func (h *BookingHandler) listForUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	h.writeUserBookings(c, id)
}

func (h *BookingHandler) writeUserBookings(c *gin.Context, userID int64) {
	bookings, err := h.service.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(&b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) schedule(c *gin.Context) {
	resourceID, day, ok := h.resourceAndDay(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListForResourceOnDate(c.Request.Context(), resourceID, day)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(&b))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) freeWindows(c *gin.Context) {
	resourceID, day, ok := h.resourceAndDay(c)
	if !ok {
		return
	}

	windows, err := h.service.FreeWindows(c.Request.Context(), resourceID, day, h.openHour, h.closeHour)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]timeWindowResponse, 0, len(windows))
	for _, w := range windows {
		out = append(out, timeWindowResponse{
			Start: w.Start.Format(time.RFC3339),
			End:   w.End.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) resourceAndDay(c *gin.Context) (int64, time.Time, bool) {
	resourceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, time.Time{}, false
	}

	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected YYYY-MM-DD"})
		return 0, time.Time{}, false
	}
	return resourceID, day, true
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:         b.ID,
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime.Format(time.RFC3339),
		EndTime:    b.EndTime.Format(time.RFC3339),
		Status:     string(b.Status),
	}
}
