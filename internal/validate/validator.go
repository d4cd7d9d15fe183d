package validate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ppiankov/politikcred/internal/metrics"
	"github.com/ppiankov/politikcred/internal/model"
	"github.com/ppiankov/politikcred/internal/store"
	"github.com/ppiankov/politikcred/internal/util"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const validateMaxRetries = 3

// validateSleepFunc waits between retries (injectable for tests)
var validateSleepFunc = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Outcome classifies a source check
type Outcome string

const (
	OutcomeLive     Outcome = "live"
	OutcomeArchived Outcome = "archived"
	OutcomeBlocked  Outcome = "blocked"
	OutcomeInvalid  Outcome = "invalid"
)

// SourceCheck is the result of checking one source URL
type SourceCheck struct {
	URL          string              `json:"url"`
	EffectiveURL string              `json:"effective_url,omitempty"` // Archive copy when the original cannot be read
	Usable       bool                `json:"usable"`
	Authority    model.AuthorityTier `json:"authority"`
	StatusCode   int                 `json:"status_code,omitempty"`
	Outcome      Outcome             `json:"outcome"`
}

// Reference converts the check into the provenance stored on a promise
func (c SourceCheck) Reference(sentence int) model.SourceReference {
	return model.SourceReference{
		URL:          c.URL,
		EffectiveURL: c.EffectiveURL,
		Usable:       c.Usable,
		Authority:    c.Authority,
		Sentence:     sentence,
	}
}

// Waiter throttles requests per host
type Waiter interface {
	Wait(ctx context.Context, key string) error
}

// Options configures a Validator
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	ArchivePrefix string
	RespectRobots bool
	HTTPProxy     string
	HTTPSProxy    string
	Authority     *model.AuthorityConfig
	Limiter       Waiter // Optional
}

// OptionsFromConfig maps the configuration sections onto validator options
func OptionsFromConfig(cfg model.ValidationConfig, authority model.AuthorityConfig) Options {
	return Options{
		Timeout:       cfg.Timeout,
		UserAgent:     cfg.UserAgent,
		ArchivePrefix: cfg.ArchivePrefix,
		RespectRobots: cfg.RespectRobots,
		HTTPProxy:     cfg.HTTPProxy,
		HTTPSProxy:    cfg.HTTPSProxy,
		Authority:     &authority,
	}
}

// Validator checks promise sources
type Validator struct {
	httpClient    *http.Client
	robots        *util.RobotsChecker
	limiter       Waiter
	authority     *AuthorityClassifier
	userAgent     string
	archivePrefix string
}

// NewValidator creates a validator
func NewValidator(opts Options) *Validator {
	defaults := model.DefaultConfig().Validation
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}

	client := &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(opts.HTTPProxy, opts.HTTPSProxy),
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	v := &Validator{
		httpClient:    client,
		limiter:       opts.Limiter,
		authority:     NewAuthorityClassifier(opts.Authority),
		userAgent:     opts.UserAgent,
		archivePrefix: opts.ArchivePrefix,
	}
	if opts.RespectRobots {
		v.robots = util.NewRobotsChecker(client, opts.UserAgent)
	}
	return v
}

// Check probes rawURL. The returned check is always filled in: when the
// source cannot be read its archived copy becomes the effective URL.
// Malformed URLs fail with an invalid error and network failures with a
// transient one.
func (v *Validator) Check(ctx context.Context, rawURL string) (SourceCheck, error) {
	rawURL = strings.TrimSpace(rawURL)
	check := SourceCheck{URL: rawURL, Authority: v.authority.Classify(rawURL)}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		check.Outcome = OutcomeInvalid
		metrics.SourceChecksTotal.WithLabelValues(string(OutcomeInvalid)).Inc()
		return check, store.Invalid("check source", fmt.Errorf("malformed source URL %q", rawURL))
	}

	if v.robots != nil {
		if allowed, _, err := v.robots.CanFetch(ctx, rawURL); err == nil && !allowed {
			log.WithField("url", rawURL).Debug("Source disallowed by robots.txt, using archive")
			v.archive(&check, OutcomeBlocked)
			return check, nil
		}
	}

	if v.limiter != nil {
		if err := v.limiter.Wait(ctx, rawURL); err != nil {
			return check, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	status, err := v.probeWithRetry(ctx, rawURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return check, ctxErr
		}
		v.archive(&check, OutcomeArchived)
		return check, store.Transient("check source", err)
	}

	check.StatusCode = status
	if status >= 200 && status < 400 {
		check.Usable = true
		check.EffectiveURL = rawURL
		check.Outcome = OutcomeLive
		metrics.SourceChecksTotal.WithLabelValues(string(OutcomeLive)).Inc()
		return check, nil
	}

	v.archive(&check, OutcomeArchived)
	return check, nil
}

// CheckAll checks urls with at most workers requests in flight. Results
// and errors are indexed like urls.
func (v *Validator) CheckAll(ctx context.Context, urls []string, workers int) ([]SourceCheck, []error) {
	checks := make([]SourceCheck, len(urls))
	errs := make([]error, len(urls))
	if workers <= 0 {
		workers = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, u := range urls {
		g.Go(func() error {
			checks[i], errs[i] = v.Check(gctx, u)
			return nil
		})
	}
	_ = g.Wait()
	return checks, errs
}

// archive points the check at the archived copy of its URL
func (v *Validator) archive(check *SourceCheck, outcome Outcome) {
	check.Outcome = outcome
	if v.archivePrefix != "" {
		check.EffectiveURL = v.archivePrefix + check.URL
		check.Usable = true
	}
	metrics.SourceChecksTotal.WithLabelValues(string(outcome)).Inc()
}

// probeWithRetry retries rate limits, server errors and network failures
// with exponential backoff
func (v *Validator) probeWithRetry(ctx context.Context, rawURL string) (int, error) {
	var (
		status int
		err    error
	)
	for attempt := 0; attempt < validateMaxRetries; attempt++ {
		status, err = v.probe(ctx, rawURL)
		if !isRetryable(status, err) {
			return status, err
		}
		if attempt < validateMaxRetries-1 {
			if serr := validateSleepFunc(ctx, time.Duration(1<<uint(attempt))*time.Second); serr != nil {
				return status, serr
			}
		}
	}
	return status, err
}

// probe sends HEAD, falling back to GET for servers that refuse HEAD
func (v *Validator) probe(ctx context.Context, rawURL string) (int, error) {
	status, err := v.do(ctx, http.MethodHead, rawURL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		return v.do(ctx, http.MethodGet, rawURL)
	}
	return status, err
}

func (v *Validator) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode, nil
}

// isRetryable is true for 429, 5xx and network failures
func isRetryable(status int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}
