package scraper

import (
	"context"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FetcherConfig controls the HTTP fetch behavior.
type FetcherConfig struct {
	BaseURL       string
	UserAgent     string
	Timeout       time.Duration
	RespectRobots bool
	// RateLimit caps request dispatch per second across all workers.
	// Zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
}

// PageFetcher implements Fetcher with a Colly collector, a shared rate
// limiter, and retry with jittered exponential backoff. One Fetch call covers
// the whole attempt sequence for a candidate; the returned outcome is
// terminal for this scan pass.
type PageFetcher struct {
	cfg     FetcherConfig
	retry   *RetryPolicy
	limiter *rate.Limiter
	base    *colly.Collector
	logger  *zap.Logger
}

// NewPageFetcher builds a PageFetcher.
func NewPageFetcher(cfg FetcherConfig, retry *RetryPolicy, logger *zap.Logger) *PageFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if retry == nil {
		retry = NewRetryPolicy(0, 0, 0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	// colly v2.1.0's Async option ignores its argument and always enables
	// async mode; omitting it keeps the collector synchronous (the default).
	c := colly.NewCollector()
	c.IgnoreRobotsTxt = !cfg.RespectRobots
	// Retries revisit the same URL; clones share the visited-URL store.
	c.AllowURLRevisit = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.SetRequestTimeout(cfg.Timeout)

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	return &PageFetcher{
		cfg:     cfg,
		retry:   retry,
		limiter: limiter,
		base:    c,
		logger:  logger,
	}
}

// Fetch retrieves the page for one candidate ID, retrying transient failures
// up to the policy's attempt budget.
//
// Classification: 2xx is success; 404 is NotFound with no retry; 4xx other
// than 404 and 429 is permanent with no retry; 429, 5xx, and network errors
// retry and degrade to transient once the budget is spent.
func (f *PageFetcher) Fetch(ctx context.Context, id CandidateID) FetchResult {
	url := CaseURL(f.cfg.BaseURL, id)
	start := time.Now()
	result := FetchResult{ID: id}

	for attempt := 1; ; attempt++ {
		result.Attempts = attempt

		if f.limiter != nil {
			if err := f.limiter.Wait(ctx); err != nil {
				result.Outcome = OutcomeTransient
				result.Duration = time.Since(start)
				return result
			}
		}

		status, body, err := f.visit(ctx, url)
		result.StatusCode = status

		switch {
		case err == nil && status >= 200 && status < 300:
			result.Outcome = OutcomeSuccess
			result.Body = body
			result.Duration = time.Since(start)
			return result
		case status == http.StatusNotFound:
			result.Outcome = OutcomeNotFound
			result.Duration = time.Since(start)
			return result
		case status >= 400 && status < 500 && status != http.StatusTooManyRequests:
			f.logger.Warn("permanent fetch failure",
				zap.Int64("candidate_id", int64(id)),
				zap.Int("status", status),
			)
			result.Outcome = OutcomePermanent
			result.Duration = time.Since(start)
			return result
		}

		if !f.retry.ShouldRetry(attempt) {
			f.logger.Warn("retries exhausted",
				zap.Int64("candidate_id", int64(id)),
				zap.Int("attempts", attempt),
				zap.Int("status", status),
				zap.Error(err),
			)
			result.Outcome = OutcomeTransient
			result.Duration = time.Since(start)
			return result
		}

		wait := f.retry.Backoff(attempt)
		f.logger.Debug("retrying candidate",
			zap.Int64("candidate_id", int64(id)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
		)
		select {
		case <-ctx.Done():
			result.Outcome = OutcomeTransient
			result.Duration = time.Since(start)
			return result
		case <-time.After(wait):
		}
	}
}

// visit executes a single GET via a cloned collector. status is zero when the
// request never produced an HTTP response.
func (f *PageFetcher) visit(ctx context.Context, url string) (status int, body []byte, err error) {
	collector := f.base.Clone()
	collector.IgnoreRobotsTxt = f.base.IgnoreRobotsTxt
	collector.AllowURLRevisit = true
	collector.UserAgent = f.base.UserAgent
	collector.SetRequestTimeout(f.cfg.Timeout)

	var fetchErr error
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, e error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = e
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return status, nil, ctx.Err()
	case visitErr := <-done:
		if fetchErr != nil {
			return status, nil, fetchErr
		}
		if visitErr != nil {
			return status, nil, visitErr
		}
		return status, body, nil
	}
}
