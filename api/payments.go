package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/anticafe/internal/service/billing"
	"github.com/Domenick1991/anticafe/internal/service/payment"
	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	payments payment.PaymentUseCase
	billing  billing.BillingUseCase
}

type recordPaymentRequest struct {
	UserID int64      `json:"user_id"`
	Amount float64    `json:"amount"`
	Date   *time.Time `json:"payment_date"`
}

type paymentResponse struct {
	ID          int64   `json:"payment_id"`
	UserID      int64   `json:"user_id"`
	Amount      float64 `json:"amount"`
	PaymentDate string  `json:"payment_date"`
}

func NewPaymentHandler(payments payment.PaymentUseCase, billingSvc billing.BillingUseCase) *PaymentHandler {
	return &PaymentHandler{payments: payments, billing: billingSvc}
}

func (h *PaymentHandler) Register(staff, admin *gin.RouterGroup) {
	staff.POST("/payments", h.record)
	staff.GET("/users/:id/payments", h.listForUser)
	staff.GET("/users/:id/stay-cost", h.priceStay)
	staff.POST("/users/:id/settle", h.settleStay)
	admin.DELETE("/payments/:id", h.delete)
}

func (h *PaymentHandler) record(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	created, err := h.payments.RecordPayment(c.Request.Context(), req.UserID, req.Amount, date)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, paymentResponse{
		ID:          created.ID,
		UserID:      created.UserID,
		Amount:      created.Amount,
		PaymentDate: created.PaymentDate.Format(time.RFC3339),
	})
}

func (h *PaymentHandler) listForUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	payments, err := h.payments.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, paymentResponse{
			ID:          p.ID,
			UserID:      p.UserID,
			Amount:      p.Amount,
			PaymentDate: p.PaymentDate.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, out)
}

// priceStay is the read-only quote; settleStay prices the stay and completes
// the active bookings it examined.
func (h *PaymentHandler) priceStay(c *gin.Context) {
	h.writeQuote(c, h.billing.PriceStay)
}

func (h *PaymentHandler) settleStay(c *gin.Context) {
	h.writeQuote(c, h.billing.SettleStay)
}

func (h *PaymentHandler) writeQuote(c *gin.Context, quote func(ctx context.Context, userID int64, at time.Time) (*billing.StayQuote, error)) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result, err := quote(c.Request.Context(), userID, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PaymentHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.payments.DeletePayment(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "payment deleted"})
}
