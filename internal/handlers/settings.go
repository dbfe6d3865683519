package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/settings"
	"jewel-market-backend/internal/store"
)

type SettingsHandler struct {
	settings *settings.Service
	store    *store.Store
}

func NewSettingsHandler(settings *settings.Service, store *store.Store) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		store:    store,
	}
}

// GetSettings reports whether an endpoint URL is active. The URL
// itself is never echoed back - it is the only credential this system
// has.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, models.SettingsResponse{Configured: h.settings.Configured()})
}

// SaveSettings validates a web app URL with a trial listing, persists
// it on success and loads the collection from it.
func (h *SettingsHandler) SaveSettings(c *gin.Context) {
	var req models.SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request body", Message: err.Error()})
		return
	}

	if err := h.settings.Save(req.WebAppURL); err != nil {
		if errors.Is(err, settings.ErrEmptyURL) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "web app url must not be empty"})
			return
		}
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "could not connect using this URL",
			Message: err.Error(),
		})
		return
	}

	// The trial listing succeeded; populate the store from the same
	// endpoint. A failure here clears the URL again.
	if err := h.store.Refresh(); err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "failed to load orders from the new endpoint",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.SettingsResponse{Configured: true})
}

// ClearSettings forgets the endpoint URL and forces the setup flow.
func (h *SettingsHandler) ClearSettings(c *gin.Context) {
	h.settings.Clear()
	c.JSON(http.StatusOK, models.SettingsResponse{Configured: false})
}
