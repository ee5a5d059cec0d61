package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"wallpaper-scraper/pkg/utils"
)

// Fetcher performs gated HTTP requests and classifies failures into the
// sentinel categories in pkg/utils. Both pages and image bytes go through
// the same path: AccessGate first, then the request itself.
type Fetcher struct {
	client    *http.Client
	gate      *AccessGate
	userAgent string
	cooldown  time.Duration // pause imposed on the caller after a 429
	log       *logrus.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(client *http.Client, gate *AccessGate, userAgent string, cooldown time.Duration, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		gate:      gate,
		userAgent: userAgent,
		cooldown:  cooldown,
		log:       log,
	}
}

// FetchPage fetches a page and returns its HTML. A policy denial returns
// ("", nil): an empty page is a deliberate policy signal, distinct from a
// fetch failure. All other failures surface as classified errors.
func (f *Fetcher) FetchPage(ctx context.Context, rawURL string) (string, error) {
	body, err := f.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchBytes fetches raw bytes through the AccessGate. A policy denial
// returns (nil, nil); callers distinguish it from an empty 200 response by
// the nil slice. On a 429 the caller is paused for the configured cooldown
// before the error surfaces, as a courtesy back-off on top of the
// steady-state politeness delay.
func (f *Fetcher) FetchBytes(ctx context.Context, rawURL string) ([]byte, error) {
	if !f.gate.MayFetch(rawURL) {
		return nil, nil
	}

	reqLog := f.log.WithField("url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request for '%s': %w", utils.ErrRequestCreation, rawURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	if err := f.gate.AcquireSlot(ctx); err != nil {
		return nil, fmt.Errorf("%w: acquiring request slot: %w", utils.ErrNetwork, err)
	}
	defer f.gate.ReleaseSlot()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching '%s': %w", utils.ErrNetwork, rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to body read

	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: '%s'", utils.ErrNotFound, rawURL)

	case resp.StatusCode == http.StatusTooManyRequests:
		io.Copy(io.Discard, resp.Body)
		reqLog.Warnf("Received 429, cooling down for %v before surfacing", f.cooldown)
		f.coolDown(ctx)
		return nil, fmt.Errorf("%w: '%s'", utils.ErrTooManyRequests, rawURL)

	default:
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d %s for '%s'", utils.ErrOtherHTTPError, resp.StatusCode, resp.Status, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body from '%s': %w", utils.ErrNetwork, rawURL, err)
	}
	reqLog.Debugf("Fetched %d bytes", len(body))
	return body, nil
}

// coolDown pauses the calling worker only, respecting context cancellation.
func (f *Fetcher) coolDown(ctx context.Context) {
	if f.cooldown <= 0 {
		return
	}
	select {
	case <-time.After(f.cooldown):
	case <-ctx.Done():
	}
}
