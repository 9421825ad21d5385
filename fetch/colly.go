package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"estate_dumps/httputil"
	"estate_dumps/metrics"
)

// CollyFetcher drives a colly collector. Each Fetch runs on a clone so the
// callbacks of concurrent fetches never see each other's responses.
type CollyFetcher struct {
	collector *colly.Collector
	limiter   *rate.Limiter
}

func NewCollyFetcher(opts Options) *CollyFetcher {
	ua := opts.UserAgent
	if ua == "" {
		ua = httputil.UserAgent
	}

	c := colly.NewCollector(
		colly.UserAgent(ua),
		colly.AllowURLRevisit(),
	)
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}

	return &CollyFetcher{
		collector: c,
		limiter:   newLimiter(opts.RequestsPerSecond),
	}
}

func (f *CollyFetcher) Fetch(ctx context.Context, url string) (doc *goquery.Document, err error) {
	start := time.Now()
	defer func() { metrics.ObserveFetch(string(KindColly), err, time.Since(start)) }()

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	collector := f.collector.Clone()
	collector.Context = ctx
	var body []byte
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept-Language", "pl-PL,pl;q=0.9,en;q=0.8")
	})

	collector.OnResponse(func(r *colly.Response) {
		if r.StatusCode != http.StatusOK {
			responseErr = fmt.Errorf("%w: %d", ErrUnexpectedStatus, r.StatusCode)
			return
		}
		body = r.Body
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = fmt.Errorf("request to %s failed with status %d: %w", url, r.StatusCode, err)
	})

	if err := collector.Visit(url); err != nil {
		return nil, fmt.Errorf("visit: %w", err)
	}
	collector.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if responseErr != nil {
		return nil, responseErr
	}
	if body == nil {
		return nil, fmt.Errorf("empty response from %s", url)
	}

	doc, err = goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
