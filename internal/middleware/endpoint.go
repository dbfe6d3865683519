package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jewel-market-backend/internal/models"
	"jewel-market-backend/internal/settings"
)

// RequireEndpoint blocks data routes until a sheet endpoint URL has
// been saved. The frontend treats the 503 as its cue to show the
// setup flow.
func RequireEndpoint(svc *settings.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !svc.Configured() {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
				Error:   "sheet endpoint not configured",
				Message: "save a Google Apps Script web app URL via POST /api/v1/settings first",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
