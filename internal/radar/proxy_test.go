package radar

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoopStreamsUpstreamBody(t *testing.T) {
	loop := []byte("GIF89a-not-really-a-gif")
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "image/gif")
		_, _ = w.Write(loop)
	}))
	defer upstream.Close()

	proxy := NewProxy(upstream.URL, time.Second, testLogger())
	rec := httptest.NewRecorder()

	if err := proxy.Loop(context.Background(), rec, "KFTG"); err != nil {
		t.Fatalf("Loop() error = %v", err)
	}
	if gotPath != "/KFTG_loop.gif" {
		t.Errorf("upstream path = %q, want /KFTG_loop.gif", gotPath)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/gif" {
		t.Errorf("Content-Type = %q, want image/gif", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), loop) {
		t.Errorf("body = %q, want upstream bytes", rec.Body.String())
	}
}

func TestLoopRejectsBadStation(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	proxy := NewProxy(upstream.URL, time.Second, testLogger())

	tests := []string{"", "kftg", "KFTG2", "../etc", "TOOLONGX"}
	for _, station := range tests {
		t.Run("station "+station, func(t *testing.T) {
			err := proxy.Loop(context.Background(), httptest.NewRecorder(), station)
			if !errors.Is(err, ErrBadStation) {
				t.Errorf("Loop(%q) error = %v, want ErrBadStation", station, err)
			}
		})
	}
	if called {
		t.Error("upstream was contacted for an invalid station")
	}
}

func TestLoopUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "slow upstream",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(tt.handler)
			defer upstream.Close()

			proxy := NewProxy(upstream.URL, 50*time.Millisecond, testLogger())
			err := proxy.Loop(context.Background(), httptest.NewRecorder(), "KFTG")
			if !errors.Is(err, ErrUpstream) {
				t.Errorf("Loop() error = %v, want ErrUpstream", err)
			}
		})
	}
}
