package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"

	"herecast/internal/geo"

	"github.com/gin-gonic/gin"
)

// handlePage godoc
// @Summary Composed conditions page
// @Description Streams an HTML document combining the client's geolocation with current air quality, weather forecasts, and active hazard alerts. Sections arrive progressively as upstream providers answer.
// @Tags page
// @Produce html
// @Success 200 {string} string "HTML document"
// @Router / [get]
func (app *App) handlePage(c *gin.Context) {
	client := geo.FromRequest(c.Request, app.tz)

	nonce, err := newNonce()
	if err != nil {
		// No nonce means no CSP-compliant inline styles; refuse rather
		// than serve a page the policy would strip bare.
		app.logger.Error("failed to generate nonce", "error", err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	header := c.Writer.Header()
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Content-Security-Policy", fmt.Sprintf(
		"default-src 'none'; img-src 'self' https:; style-src 'nonce-%s'; base-uri 'none'; frame-ancestors 'none'", nonce))
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Referrer-Policy", "no-referrer")
	c.Status(http.StatusOK)

	if err := app.composer.Render(c.Request.Context(), c.Writer, client, nonce); err != nil {
		// The status line is long gone; the client hung up mid-stream.
		app.logger.Warn("page stream aborted", "client_ip", client.IP, "error", err)
	}
}

// newNonce produces the per-response CSP nonce threaded through every
// inline style fragment.
func newNonce() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(raw), nil
}
