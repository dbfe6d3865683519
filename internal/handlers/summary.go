package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/store"
	"jewel-market-backend/internal/summary"
	"jewel-market-backend/internal/view"
)

type SummaryHandler struct {
	store      *store.Store
	summarizer *summary.Summarizer
}

func NewSummaryHandler(store *store.Store, summarizer *summary.Summarizer) *SummaryHandler {
	return &SummaryHandler{
		store:      store,
		summarizer: summarizer,
	}
}

// GetSummary runs the AI analyst over the filtered view. The response
// is always 200 with a text body; an unavailable or failing AI service
// yields its explanation in place of a summary.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	start, end, query, err := filterParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid filter", Message: err.Error()})
		return
	}

	filtered := view.Filter(h.store.Orders(), start, end, query)
	text := h.summarizer.Summarize(c.Request.Context(), filtered)
	c.JSON(http.StatusOK, models.SummaryResponse{Summary: text})
}
