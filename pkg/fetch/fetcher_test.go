package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"wallpaper-scraper/pkg/utils"
)

func newTestFetcher(policy AccessPolicy, cooldown time.Duration) *Fetcher {
	log := newTestLogger()
	gate := NewAccessGate(policy, NewRateLimiter(0, log), 4, logrus.NewEntry(log))
	return NewFetcher(http.DefaultClient, gate, "test-agent/1.0", cooldown, log)
}

func TestFetcher_ReturnsBodyOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent/1.0" {
			t.Errorf("User-Agent = %q, want test-agent/1.0", got)
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	f := newTestFetcher(&stubPolicy{allow: true}, 0)
	html, err := f.FetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if html != "<html>ok</html>" {
		t.Errorf("FetchPage = %q, want page body", html)
	}
}

func TestFetcher_PolicyDenialReturnsEmptyNoError(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	f := newTestFetcher(&stubPolicy{allow: false}, 0)
	html, err := f.FetchPage(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("denied FetchPage returned error: %v", err)
	}
	if html != "" {
		t.Errorf("denied FetchPage = %q, want empty string", html)
	}

	data, err := f.FetchBytes(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("denied FetchBytes returned error: %v", err)
	}
	if data != nil {
		t.Errorf("denied FetchBytes = %v, want nil slice", data)
	}
	if requests != 0 {
		t.Errorf("server saw %d requests for denied URLs, want 0", requests)
	}
}

func TestFetcher_ClassifiesStatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantErr  error
		category string
	}{
		{"not found", http.StatusNotFound, utils.ErrNotFound, "HTTP_404"},
		{"rate limited", http.StatusTooManyRequests, utils.ErrTooManyRequests, "HTTP_429"},
		{"server error", http.StatusInternalServerError, utils.ErrOtherHTTPError, "HTTP_Other"},
		{"forbidden", http.StatusForbidden, utils.ErrOtherHTTPError, "HTTP_403"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			f := newTestFetcher(&stubPolicy{allow: true}, 0)
			_, err := f.FetchBytes(context.Background(), srv.URL)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error = %v, want %v", err, tc.wantErr)
			}
			if got := utils.CategorizeError(err); got != tc.category {
				t.Errorf("CategorizeError = %q, want %q", got, tc.category)
			}
		})
	}
}

func TestFetcher_NetworkErrorIsClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	f := newTestFetcher(&stubPolicy{allow: true}, 0)
	_, err := f.FetchBytes(context.Background(), srv.URL)
	if !errors.Is(err, utils.ErrNetwork) {
		t.Fatalf("error = %v, want %v", err, utils.ErrNetwork)
	}
}

func TestFetcher_429PausesCallerBeforeSurfacing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	const cooldown = 100 * time.Millisecond
	f := newTestFetcher(&stubPolicy{allow: true}, cooldown)

	start := time.Now()
	_, err := f.FetchBytes(context.Background(), srv.URL)
	elapsed := time.Since(start)

	if !errors.Is(err, utils.ErrTooManyRequests) {
		t.Fatalf("error = %v, want %v", err, utils.ErrTooManyRequests)
	}
	if elapsed < cooldown {
		t.Errorf("429 surfaced after %v, want cooldown of at least %v", elapsed, cooldown)
	}
}

func TestFetcher_429CooldownRespectsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := newTestFetcher(&stubPolicy{allow: true}, 10*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := f.FetchBytes(ctx, srv.URL)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancelled cooldown took %v, expected prompt return", elapsed)
	}
	if !errors.Is(err, utils.ErrTooManyRequests) {
		t.Fatalf("error = %v, want %v", err, utils.ErrTooManyRequests)
	}
}
