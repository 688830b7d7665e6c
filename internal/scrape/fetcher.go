package scrape

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gocolly/colly/v2"

	"tdsk-analytics/internal/logging"
)

// Fetcher downloads pages through Colly with a per-domain delay and
// bounded retries. Pages are fetched sequentially.
type Fetcher struct {
	UserAgent      string
	MaxRetries     int
	RequestTimeout time.Duration
	Delay          time.Duration
}

// NewFetcher returns a Fetcher with polite defaults.
func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		UserAgent:      userAgent,
		MaxRetries:     3,
		RequestTimeout: 30 * time.Second,
		Delay:          1 * time.Second,
	}
}

// Get fetches one URL and returns the response body.
func (f *Fetcher) Get(ctx context.Context, targetURL string) ([]byte, error) {
	parsed, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", targetURL, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(f.UserAgent),
		colly.AllowedDomains(parsed.Hostname()),
		colly.AllowURLRevisit(),
	)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      f.Delay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limit: %w", err)
	}
	c.SetRequestTimeout(f.RequestTimeout)

	var body []byte
	var fetchErr error

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			fetchErr = ctx.Err()
			r.Abort()
		default:
		}
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		fetchErr = nil
	})

	c.OnError(func(r *colly.Response, err error) {
		retries := 0
		if v := r.Request.Ctx.GetAny("retries"); v != nil {
			retries = v.(int)
		}
		if retries < f.MaxRetries {
			r.Request.Ctx.Put("retries", retries+1)
			logging.Infof("[scrape] retry %d/%d for %s: %v", retries+1, f.MaxRetries, r.Request.URL, err)
			if retryErr := r.Request.Retry(); retryErr == nil {
				return
			}
		}
		fetchErr = fmt.Errorf("fetch %s: %w", r.Request.URL, err)
	})

	if err := c.Visit(targetURL); err != nil {
		return nil, fmt.Errorf("visit %s: %w", targetURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if body == nil {
		return nil, fmt.Errorf("no response from %s", targetURL)
	}
	return body, nil
}
