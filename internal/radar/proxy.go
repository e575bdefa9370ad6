// Package radar proxies the animated radar loop for a station so the page
// can embed it without pointing the browser at the upstream host. Bytes are
// forwarded as-is; any transcoding happens elsewhere.
package radar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"herecast/internal/fetch"
)

// API Docs: https://www.weather.gov/gis/RadarImagery
// Sample request:
// - https://radar.weather.gov/ridge/standard/KFTG_loop.gif
const defaultBaseURL = "https://radar.weather.gov/ridge/standard"

// ErrBadStation rejects identifiers that are not radar station callsigns.
var ErrBadStation = errors.New("invalid radar station identifier")

// ErrUpstream reports that the radar host did not return the loop.
var ErrUpstream = errors.New("radar upstream unavailable")

// Station callsigns are three or four letters ("KFTG", "TJUA").
var stationPattern = regexp.MustCompile(`^[A-Z]{3,4}$`)

type Proxy struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewProxy builds a radar loop proxy sharing the bounded-fetch timeout.
func NewProxy(baseURL string, timeout time.Duration, logger *slog.Logger) *Proxy {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	return &Proxy{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		timeout:    timeout,
		logger:     logger.With("component", "radar-proxy"),
	}
}

// Loop streams the animated loop for one station to w. The upstream call
// is bounded by the proxy's timeout; the body copy is not, since by then
// the client is already consuming the stream.
func (p *Proxy) Loop(ctx context.Context, w http.ResponseWriter, station string) error {
	if !stationPattern.MatchString(station) {
		return fmt.Errorf("%w: %q", ErrBadStation, station)
	}

	rawURL := fmt.Sprintf("%s/%s_loop.gif", p.baseURL, station)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Warn("radar upstream unreachable", "url", rawURL, "error", err)
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		p.logger.Warn("radar upstream returned error status", "url", rawURL, "status", resp.StatusCode)
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/gif"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, resp.Body); err != nil {
		// Headers are already out; all that is left is to log it.
		p.logger.Warn("radar stream interrupted", "url", rawURL, "error", err)
	}
	return nil
}
