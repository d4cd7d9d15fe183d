package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/temoto/robotstxt"
)

// robotsTTL bounds how long a host's robots.txt is trusted
const robotsTTL = 6 * time.Hour

// RobotsChecker decides whether a source page may be probed
type RobotsChecker struct {
	cache      *cache.Cache
	httpClient *http.Client
	agent      string
}

// NewRobotsChecker creates a checker. The agent is matched against
// robots.txt groups by product token, so "PolitikCred/0.1 (...)" becomes "PolitikCred".
func NewRobotsChecker(client *http.Client, userAgent string) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		cache:      cache.New(robotsTTL, time.Hour),
		httpClient: client,
		agent:      NormalizeUserAgent(userAgent),
	}
}

// CanFetch reports whether rawURL may be fetched and the crawl delay the
// host asks for. An unreachable robots.txt allows the fetch.
func (r *RobotsChecker) CanFetch(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return false, 0, fmt.Errorf("parse URL: missing host in %q", rawURL)
	}

	data, err := r.robotsData(ctx, parsed.Scheme, parsed.Host)
	if err != nil {
		return true, 0, nil
	}

	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	allowed := data.TestAgent(path, r.agent)

	var delay time.Duration
	if group := data.FindGroup(r.agent); group != nil {
		delay = group.CrawlDelay
	}
	return allowed, delay, nil
}

func (r *RobotsChecker) robotsData(ctx context.Context, scheme, host string) (*robotstxt.RobotsData, error) {
	if v, ok := r.cache.Get(host); ok {
		return v.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s://%s/robots.txt", scheme, host), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	r.cache.SetDefault(host, data)
	return data, nil
}

// Clear forgets every cached robots.txt
func (r *RobotsChecker) Clear() {
	r.cache.Flush()
}

// NormalizeUserAgent returns the product token of a user agent string
func NormalizeUserAgent(ua string) string {
	parts := strings.Fields(ua)
	if len(parts) == 0 {
		return ua
	}
	return strings.Split(parts[0], "/")[0]
}
