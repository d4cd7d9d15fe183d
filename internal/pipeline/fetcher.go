package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/politikcred/internal/store"
	"github.com/ppiankov/politikcred/internal/util"
)

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// Document is one source text handed to extraction
type Document struct {
	Body       string
	URL        string // Citation URL; empty for local text without provenance
	HTML       bool
	StatusCode int
}

// Fetcher loads a single source document. It never follows links.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewFetcher creates a new Fetcher with the given configuration
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, httpProxy, httpsProxy string) *Fetcher {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: util.NewProxyFunc(httpProxy, httpsProxy)},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
	}
}

// Fetch retrieves one page. 429 and 5xx responses are transient errors,
// other non-2xx responses are invalid.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, store.Invalid("fetch", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, store.Transient("fetch", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, store.Transient("fetch", fmt.Errorf("unexpected status: %s", resp.Status))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, store.Invalid("fetch", fmt.Errorf("unexpected status: %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, store.Transient("fetch", fmt.Errorf("read body: %w", err))
	}

	return &Document{
		Body:       string(body),
		URL:        resp.Request.URL.String(),
		HTML:       strings.Contains(resp.Header.Get("Content-Type"), "html") || looksLikeHTML(string(body)),
		StatusCode: resp.StatusCode,
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*Document, error) {
	var lastErr error
	for attempt := 0; attempt < fetchMaxRetries; attempt++ {
		doc, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err
		if !store.IsTransient(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < fetchMaxRetries-1 {
			fetchSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", fetchMaxRetries, lastErr)
}

// LoadFile reads a local transcript or saved page. citeURL is recorded
// as the document's provenance and may be empty.
func LoadFile(path, citeURL string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	body := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	return &Document{
		Body: body,
		URL:  citeURL,
		HTML: ext == ".html" || ext == ".htm" || looksLikeHTML(body),
	}, nil
}

func looksLikeHTML(body string) bool {
	head := strings.ToLower(strings.TrimSpace(body))
	if len(head) > 256 {
		head = head[:256]
	}
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html") || strings.Contains(head, "<body")
}
