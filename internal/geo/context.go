// Package geo builds the per-request client geography from inbound request
// metadata. The edge in front of this service annotates every request with
// headers describing where the connection came from; nothing here performs
// an outbound geolocation lookup.
package geo

import (
	"crypto/tls"
	"net"
	"net/http"
	"strconv"
	"strings"

	"herecast/internal/timezone"
	"herecast/internal/types"
)

// Headers the edge attaches to forwarded requests.
const (
	HeaderConnectingIP = "CF-Connecting-IP"
	HeaderCountry      = "CF-IPCountry"
	HeaderCity         = "CF-IPCity"
	HeaderContinent    = "CF-IPContinent"
	HeaderLatitude     = "CF-IPLatitude"
	HeaderLongitude    = "CF-IPLongitude"
	HeaderRegion       = "CF-Region"
	HeaderRegionCode   = "CF-Region-Code"
	HeaderPostalCode   = "CF-Postal-Code"
	HeaderTimezone     = "CF-Timezone"
	HeaderRay          = "CF-Ray"
	HeaderASN          = "X-Client-ASN"
	HeaderASOrg        = "X-Client-AS-Org"
	HeaderTLSVersion   = "X-Client-TLS-Version"
	HeaderTLSCipher    = "X-Client-TLS-Cipher"
)

// Context is the client geography and connection metadata for one request.
// It is assembled once when the request arrives and read-only afterwards;
// a second request from the same client yields an independent Context.
type Context struct {
	IP    string
	ASN   string
	ASOrg string

	Coords    types.Coords
	HasCoords bool

	City       string
	Region     string
	RegionCode string
	PostalCode string
	Country    string
	Continent  string
	Timezone   string

	Colo       string
	TLSVersion string
	TLSCipher  string
	Protocol   string
	UserAgent  string
}

// FromRequest assembles a Context from the request's edge headers, with
// direct-connection fallbacks for local development. The timezone service
// fills the timezone when the edge did not forward one; it may be nil.
func FromRequest(r *http.Request, tz timezone.Service) Context {
	h := r.Header

	c := Context{
		IP:         clientIP(r),
		ASN:        h.Get(HeaderASN),
		ASOrg:      h.Get(HeaderASOrg),
		City:       h.Get(HeaderCity),
		Region:     h.Get(HeaderRegion),
		RegionCode: h.Get(HeaderRegionCode),
		PostalCode: h.Get(HeaderPostalCode),
		Country:    h.Get(HeaderCountry),
		Continent:  h.Get(HeaderContinent),
		Timezone:   h.Get(HeaderTimezone),
		Colo:       coloFromRay(h.Get(HeaderRay)),
		Protocol:   r.Proto,
		UserAgent:  h.Get("User-Agent"),
	}

	if lat, lon, ok := parseCoords(h.Get(HeaderLatitude), h.Get(HeaderLongitude)); ok {
		c.Coords = types.NewCoords(lat, lon)
		c.HasCoords = true
	}

	c.TLSVersion, c.TLSCipher = tlsDetails(r)

	if c.Timezone == "" && c.HasCoords && tz != nil {
		if name, err := tz.Lookup(c.Coords.Latitude, c.Coords.Longitude); err == nil {
			c.Timezone = name
		}
	}

	return c
}

// USCoverage reports whether the client is somewhere the US-government
// providers cover. Calls to those providers are skipped outside it.
func (c Context) USCoverage() bool {
	return c.Country == "US"
}

// Located reports whether the edge produced a usable position at all.
func (c Context) Located() bool {
	return c.HasCoords && c.Country != "" && c.Country != "XX" && c.Country != "T1"
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get(HeaderConnectingIP); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	// First entry of X-Forwarded-For is the original client.
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func parseCoords(latStr, lonStr string) (float64, float64, bool) {
	if latStr == "" || lonStr == "" {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, false
	}
	// The zero pair is what edges emit when the lookup came up empty.
	if lat == 0 && lon == 0 {
		return 0, 0, false
	}
	return lat, lon, true
}

// coloFromRay extracts the edge datacenter code from a ray id like
// "8f7a2b3c4d5e6f70-DEN".
func coloFromRay(ray string) string {
	if i := strings.LastIndexByte(ray, '-'); i >= 0 && i+1 < len(ray) {
		return ray[i+1:]
	}
	return ""
}

func tlsDetails(r *http.Request) (version, cipher string) {
	if r.TLS != nil {
		return tls.VersionName(r.TLS.Version), tls.CipherSuiteName(r.TLS.CipherSuite)
	}
	// TLS terminated at the edge; trust its forwarded summary.
	return r.Header.Get(HeaderTLSVersion), r.Header.Get(HeaderTLSCipher)
}
