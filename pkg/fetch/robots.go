package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"
)

// AccessPolicy decides whether a URL may be fetched at all. The production
// implementation evaluates robots.txt; tests substitute their own.
type AccessPolicy interface {
	Allowed(rawURL string) bool
}

// RobotsPolicy implements AccessPolicy by fetching, parsing, and caching
// robots.txt per host. Constructed once with a fixed user-agent.
type RobotsPolicy struct {
	client      *http.Client
	rateLimiter *RateLimiter
	userAgent   string
	cache       map[string]*robotstxt.RobotsData // hostname -> parsed data (nil on fetch/parse failure)
	cacheMu     sync.Mutex
	log         *logrus.Entry
}

// NewRobotsPolicy creates a RobotsPolicy.
func NewRobotsPolicy(client *http.Client, rateLimiter *RateLimiter, userAgent string, log *logrus.Entry) *RobotsPolicy {
	return &RobotsPolicy{
		client:      client,
		rateLimiter: rateLimiter,
		userAgent:   userAgent,
		cache:       make(map[string]*robotstxt.RobotsData),
		log:         log,
	}
}

// Allowed reports whether the configured user-agent may fetch rawURL.
// Assumes allowed when the URL cannot be parsed or robots.txt cannot be
// obtained, matching the usual crawler convention.
func (rp *RobotsPolicy) Allowed(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return true
	}

	data := rp.robotsData(parsed)
	if data == nil {
		return true
	}
	return data.TestAgent(parsed.RequestURI(), rp.userAgent)
}

// robotsData retrieves robots.txt data for the host, using the cache or
// fetching once. Returns nil on any error/4xx/missing file; the nil result
// is cached so the host is only tried once per run.
func (rp *RobotsPolicy) robotsData(target *url.URL) *robotstxt.RobotsData {
	host := target.Hostname()

	rp.cacheMu.Lock()
	data, found := rp.cache[host]
	rp.cacheMu.Unlock()
	if found {
		return data
	}

	robotsURL := &url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/robots.txt"}
	if target.Scheme != "http" && target.Scheme != "https" {
		robotsURL.Scheme = "https"
	}
	robotsLog := rp.log.WithFields(logrus.Fields{"host": host, "robots_url": robotsURL.String()})
	robotsLog.Info("Fetching robots.txt...")

	data = rp.fetchRobots(robotsURL, robotsLog)

	rp.cacheMu.Lock()
	rp.cache[host] = data
	rp.cacheMu.Unlock()
	return data
}

func (rp *RobotsPolicy) fetchRobots(robotsURL *url.URL, robotsLog *logrus.Entry) *robotstxt.RobotsData {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, robotsURL.String(), nil)
	if err != nil {
		robotsLog.Errorf("Error creating robots.txt request: %v", err)
		return nil
	}
	req.Header.Set("User-Agent", rp.userAgent)

	// The robots fetch is an outbound request like any other and spends a
	// politeness grant.
	rp.rateLimiter.Acquire()

	resp, err := rp.client.Do(req)
	if err != nil {
		robotsLog.Warnf("Fetching robots.txt failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		robotsLog.Warnf("robots.txt returned status %d, assuming allowed", resp.StatusCode)
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		robotsLog.Errorf("Error reading robots.txt body: %v", err)
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		robotsLog.Errorf("Error parsing robots.txt: %v", err)
		return nil
	}

	robotsLog.Info("Successfully fetched and parsed robots.txt")
	return data
}
