package api

import (
	"context"
	"net/http"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/gin-gonic/gin"
)

// RankingTrigger queues automatic ranking for a new booking.
type RankingTrigger interface {
	BookingCreated(ctx context.Context, bookingID int64)
}

type HookHandler struct {
	trigger RankingTrigger
}

type bookingCreatedRequest struct {
	BookingID int64 `json:"booking_id" binding:"required,gt=0"`
}

func NewHookHandler(trigger RankingTrigger) *HookHandler {
	return &HookHandler{trigger: trigger}
}

func (h *HookHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings/created", h.bookingCreated)
}

func (h *HookHandler) bookingCreated(c *gin.Context) {
	var req bookingCreatedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.Invalid("body", err.Error()))
		return
	}

	h.trigger.BookingCreated(c.Request.Context(), req.BookingID)
	c.JSON(http.StatusAccepted, gin.H{"booking_id": req.BookingID, "status": "queued"})
}
