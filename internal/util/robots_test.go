package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"PolitikCred/0.1 (+https://github.com/ppiankov/politikcred)": "PolitikCred",
		"curl":   "curl",
		"":       "",
		"  Bot ": "Bot",
	}
	for in, expected := range tests {
		if got := NormalizeUserAgent(in); got != expected {
			t.Errorf("NormalizeUserAgent(%q): expected %q, got %q", in, expected, got)
		}
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var fetches int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		atomic.AddInt32(&fetches, 1)
		_, _ = w.Write([]byte("User-agent: PolitikCred\nDisallow: /private\nCrawl-delay: 2\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "PolitikCred/0.1")
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/scrutins/123")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !allowed {
		t.Error("expected public path to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("expected crawl delay 2s, got %v", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/private/doc")
	if allowed {
		t.Error("expected private path to be disallowed")
	}

	if n := atomic.LoadInt32(&fetches); n != 1 {
		t.Errorf("expected robots.txt to be fetched once, got %d", n)
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "PolitikCred")
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil || !allowed {
		t.Errorf("expected allowed without robots.txt, got %v, %v", allowed, err)
	}
}

func TestRobotsChecker_InvalidURL(t *testing.T) {
	checker := NewRobotsChecker(nil, "PolitikCred")
	if _, _, err := checker.CanFetch(context.Background(), "not a url"); err == nil {
		t.Error("expected error for URL without host")
	}
}
