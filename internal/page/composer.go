// Package page composes the conditions document and streams it section by
// section. Fragments go out in a fixed order: head, geolocation, current
// conditions, outlook, footer. The first two need no network data and are
// on the wire before any provider has answered; later fragments wait only
// on the round that feeds them. The sink is written by this one goroutine
// and finished exactly once, however many provider calls failed.
package page

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"herecast/internal/conditions"
	"herecast/internal/geo"
	"herecast/internal/types"
)

// Composer renders conditions pages. It owns no per-request state; one
// Composer serves every request.
type Composer struct {
	svc    conditions.Service
	logger *slog.Logger
}

// NewComposer creates a composer around a conditions service.
func NewComposer(svc conditions.Service, logger *slog.Logger) *Composer {
	return &Composer{
		svc:    svc,
		logger: logger.With("component", "page-composer"),
	}
}

type headData struct {
	Nonce string
	Bands []bandClass
}

type bandClass struct {
	Class string
	Color string
}

type geoData struct {
	Nonce string
	Geo   geo.Context
}

type currentData struct {
	Nonce string
	View  conditions.CurrentConditions
}

type outlookData struct {
	Nonce string
	View  conditions.Outlook
}

type footerData struct {
	Nonce       string
	Statuses    []conditions.ProviderStatus
	GeneratedAt time.Time
}

// Render streams the full document for one request. The head and
// geolocation fragments are written while round one is still in flight;
// round two launches as soon as round one settles and overlaps the
// current-conditions write. Render returns once the footer is on the wire.
// The returned error reports sink write failures only; provider failures
// are carried in the page itself.
func (c *Composer) Render(ctx context.Context, w io.Writer, client geo.Context, nonce string) error {
	round1 := make(chan conditions.Round1, 1)
	go func() {
		round1 <- c.svc.Round1(ctx, client)
	}()

	if err := c.writeFragment(w, "head", headData{Nonce: nonce, Bands: aqiBands()}); err != nil {
		return err
	}
	if err := c.writeFragment(w, "geolocation", geoData{Nonce: nonce, Geo: client}); err != nil {
		return err
	}

	r1 := <-round1

	round2 := make(chan conditions.Round2, 1)
	go func() {
		round2 <- c.svc.Round2(ctx, client, r1)
	}()

	if err := c.writeFragment(w, "current", currentData{Nonce: nonce, View: conditions.BuildCurrent(r1)}); err != nil {
		return err
	}

	r2 := <-round2

	if err := c.writeFragment(w, "outlook", outlookData{Nonce: nonce, View: conditions.BuildOutlook(r1, r2)}); err != nil {
		return err
	}

	return c.writeFragment(w, "footer", footerData{
		Nonce:       nonce,
		Statuses:    conditions.Statuses(r1, r2),
		GeneratedAt: time.Now().UTC(),
	})
}

// writeFragment renders one section into the sink and flushes it so the
// client sees the section without waiting for the rest of the document.
// Each fragment is staged in its own small buffer first: a template fault
// must not leave a half-written section, it degrades to an inline
// diagnostic in that section's place and the document continues.
func (c *Composer) writeFragment(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		c.logger.Error("fragment render failed", "fragment", name, "error", err)
		buf.Reset()
		fmt.Fprintf(&buf, "<section class=\"fragment-error\"><p>Section %s could not be rendered: %s</p></section>\n",
			template.HTMLEscapeString(name), template.HTMLEscapeString(err.Error()))
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write %s fragment: %w", name, err)
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// aqiBands lists the CSS class and color for every EPA band the page can
// tag a reading with.
func aqiBands() []bandClass {
	bands := make([]bandClass, 0, int(types.AQIHazardous)+1)
	for cat := types.AQIUnknown; cat <= types.AQIHazardous; cat++ {
		bands = append(bands, bandClass{
			Class: fmt.Sprintf("aqi-%d", int(cat)),
			Color: cat.Color(),
		})
	}
	return bands
}

// wholeNumber renders a pointer-valued reading rounded to a whole number.
// Templates only reach it inside a with-block, so the pointer is never nil.
func wholeNumber(v *float64) string {
	return fmt.Sprintf("%.0f", *v)
}

func statusGlyph(s conditions.CallStatus) string {
	switch s {
	case conditions.StatusOK:
		return "●"
	case conditions.StatusNoData:
		return "○"
	case conditions.StatusFailed:
		return "✕"
	default:
		return "–"
	}
}
