package main

import (
	"errors"
	"net/http"
	"strings"

	"herecast/internal/radar"

	"github.com/gin-gonic/gin"
)

// handleRadar godoc
// @Summary Radar loop image
// @Description Proxies the animated radar loop for a station so the page can embed it same-origin.
// @Tags radar
// @Produce gif
// @Param station path string true "Radar station callsign" example(KFTG)
// @Success 200 {string} binary "Animated radar loop"
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /radar/{station} [get]
func (app *App) handleRadar(c *gin.Context) {
	station := strings.ToUpper(c.Param("station"))

	err := app.radar.Loop(c.Request.Context(), c.Writer, station)
	if err == nil {
		return
	}

	if errors.Is(err, radar.ErrBadStation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid radar station"})
		return
	}

	app.logger.Warn("radar proxy failed", "station", station, "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "radar unavailable"})
}
