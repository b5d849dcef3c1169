package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/service/suggestion"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

type SuggestionHandler struct {
	service suggestion.SuggestionUseCase
}

type suggestionResponse struct {
	Rank             int    `json:"rank"`
	DestinationID    int64  `json:"destination_id"`
	Name             string `json:"name"`
	City             string `json:"city"`
	Country          string `json:"country"`
	Stadium          string `json:"stadium,omitempty"`
	League           string `json:"league,omitempty"`
	AirportCode      string `json:"airport_code,omitempty"`
	FlightPriceCents int64  `json:"flight_price_cents"`
	Currency         string `json:"currency"`
	Justification    string `json:"justification"`
	PriceStale       bool   `json:"price_stale"`
}

type shortlistResponse struct {
	BookingID      int64                `json:"booking_id"`
	Status         string               `json:"status,omitempty"`
	DestinationID  *int64               `json:"destination_id,omitempty"`
	BatchID        string               `json:"batch_id,omitempty"`
	NeedsAttention bool                 `json:"needs_attention"`
	Suggestions    []suggestionResponse `json:"suggestions"`
	Top            *suggestionResponse  `json:"top"`
}

type batchResponse struct {
	BatchID      string  `json:"batch_id"`
	Size         int     `json:"size"`
	Current      bool    `json:"current"`
	CreatedAt    string  `json:"created_at"`
	SupersededAt *string `json:"superseded_at,omitempty"`
	FinalizedAt  *string `json:"finalized_at,omitempty"`
}

type refreshRequest struct {
	DepartDate string `json:"depart_date" binding:"required"`
	ReturnDate string `json:"return_date"`
}

type refreshResponse struct {
	DestinationsUpdated int `json:"destinations_updated"`
	PricesFound         int `json:"prices_found"`
	Skipped             int `json:"skipped"`
	Unresolved          int `json:"unresolved"`
}

func NewSuggestionHandler(service suggestion.SuggestionUseCase) *SuggestionHandler {
	return &SuggestionHandler{service: service}
}

func (h *SuggestionHandler) Register(router *gin.RouterGroup) {
	router.GET("/bookings/:id/suggestions", h.list)
	router.POST("/bookings/:id/suggestions", h.suggest)
	router.GET("/bookings/:id/suggestions/history", h.history)
	router.POST("/destinations/prices/refresh", h.refresh)
}

func (h *SuggestionHandler) list(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	list, err := h.service.Shortlist(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, shortlistResponse{
		BookingID:     list.BookingID,
		Status:        string(list.Status),
		DestinationID: list.DestinationID,
		Suggestions:   toSuggestionResponses(list.Suggestions),
		Top:           toSuggestionResponse(list.Top),
	})
}

func (h *SuggestionHandler) suggest(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.service.Suggest(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	status := domain.RevealStatusSuggested
	if len(result.Suggestions) == 0 {
		status = domain.RevealStatusPending
	}
	c.JSON(http.StatusOK, shortlistResponse{
		BookingID:      result.BookingID,
		Status:         string(status),
		BatchID:        result.BatchID.String(),
		NeedsAttention: result.NeedsAttention,
		Suggestions:    toSuggestionResponses(result.Suggestions),
		Top:            toSuggestionResponse(result.Top),
	})
}

func (h *SuggestionHandler) history(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	batches, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]batchResponse, 0, len(batches))
	for _, b := range batches {
		resp = append(resp, batchResponse{
			BatchID:      b.ID.String(),
			Size:         b.Size,
			Current:      b.Current,
			CreatedAt:    b.CreatedAt.Format(time.RFC3339),
			SupersededAt: formatOptionalTime(b.SupersededAt),
			FinalizedAt:  formatOptionalTime(b.FinalizedAt),
		})
	}
	c.JSON(http.StatusOK, gin.H{"booking_id": id, "batches": resp})
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func (h *SuggestionHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, domain.Invalid("body", err.Error()))
		return
	}

	depart, err := time.Parse(dateLayout, req.DepartDate)
	if err != nil {
		writeError(c, domain.Invalid("depart_date", "must be YYYY-MM-DD"))
		return
	}
	var ret *time.Time
	if req.ReturnDate != "" {
		r, err := time.Parse(dateLayout, req.ReturnDate)
		if err != nil {
			writeError(c, domain.Invalid("return_date", "must be YYYY-MM-DD"))
			return
		}
		ret = &r
	}

	result, err := h.service.BulkRefreshPrices(c.Request.Context(), depart, ret)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, refreshResponse{
		DestinationsUpdated: result.DestinationsUpdated,
		PricesFound:         result.PricesFound,
		Skipped:             result.Skipped,
		Unresolved:          result.Unresolved,
	})
}

func bookingID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("booking_id", "must be a positive integer")
	}
	return id, nil
}

func toSuggestionResponse(s *domain.Suggestion) *suggestionResponse {
	if s == nil {
		return nil
	}
	return &suggestionResponse{
		Rank:             s.Rank,
		DestinationID:    s.DestinationID,
		Name:             s.Destination.Name,
		City:             s.Destination.City,
		Country:          s.Destination.Country,
		Stadium:          s.Destination.Stadium,
		League:           s.Destination.League,
		AirportCode:      s.Destination.AirportCode,
		FlightPriceCents: s.FlightPriceCents,
		Currency:         s.Currency,
		Justification:    s.Justification,
		PriceStale:       s.PriceStale,
	}
}

func toSuggestionResponses(list []domain.Suggestion) []suggestionResponse {
	out := make([]suggestionResponse, 0, len(list))
	for i := range list {
		out = append(out, *toSuggestionResponse(&list[i]))
	}
	return out
}
