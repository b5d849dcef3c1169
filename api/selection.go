package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/service/reveal"
	"github.com/gin-gonic/gin"
)

type SelectionHandler struct {
	service reveal.RevealUseCase
}

type selectRequest struct {
	DestinationID int64  `json:"destination_id" binding:"required,gt=0"`
	Notes         string `json:"notes" binding:"max=2000"`
}

type acceptTopRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

type selectionResponse struct {
	BookingID       int64  `json:"booking_id"`
	DestinationID   int64  `json:"destination_id"`
	DestinationName string `json:"destination_name"`
	City            string `json:"city"`
	Country         string `json:"country"`
	Source          string `json:"source"`
	Notes           string `json:"notes,omitempty"`
	RevealedAt      string `json:"revealed_at"`
	AlreadyRevealed bool   `json:"already_revealed"`
}

func NewSelectionHandler(service reveal.RevealUseCase) *SelectionHandler {
	return &SelectionHandler{service: service}
}

func (h *SelectionHandler) Register(router *gin.RouterGroup) {
	router.POST("/bookings/:id/selection", h.selectDestination)
	router.POST("/bookings/:id/selection/top", h.acceptTop)
	router.GET("/bookings/:id/status", h.status)
}

type statusResponse struct {
	BookingID int64  `json:"booking_id"`
	Status    string `json:"status"`
}

func (h *SelectionHandler) status(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	status, err := h.service.Status(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{BookingID: id, Status: string(status)})
}

func (h *SelectionHandler) selectDestination(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.Invalid("body", err.Error()))
		return
	}

	result, err := h.service.Select(c.Request.Context(), reveal.SelectInput{
		BookingID:     id,
		DestinationID: req.DestinationID,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(statusFor(result), toSelectionResponse(result))
}

func (h *SelectionHandler) acceptTop(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req acceptTopRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, domain.Invalid("body", err.Error()))
			return
		}
	}

	result, err := h.service.AcceptTop(c.Request.Context(), id, req.Notes)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(statusFor(result), toSelectionResponse(result))
}

// statusFor answers 201 for a new decision and 200 when one was already in force.
func statusFor(r *reveal.SelectResult) int {
	if r.AlreadyRevealed {
		return http.StatusOK
	}
	return http.StatusCreated
}

func toSelectionResponse(r *reveal.SelectResult) selectionResponse {
	return selectionResponse{
		BookingID:       r.Decision.BookingID,
		DestinationID:   r.Decision.DestinationID,
		DestinationName: r.Destination.Name,
		City:            r.Destination.City,
		Country:         r.Destination.Country,
		Source:          string(r.Decision.Source),
		Notes:           r.Decision.Notes,
		RevealedAt:      r.Decision.RevealedAt.Format(time.RFC3339),
		AlreadyRevealed: r.AlreadyRevealed,
	}
}
