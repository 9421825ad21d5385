package scraper

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"estate_dumps/fetch"
	"estate_dumps/metrics"
	"estate_dumps/models"
)

type CrawlerOptions struct {
	SiteID string
	// Workers caps in-flight detail extractions. Defaults to 1.
	Workers      int
	FetchTimeout time.Duration
}

// Crawler runs discovery over index pages, then extracts every discovered
// listing. Listing failures become empty entries; nothing aborts the crawl.
type Crawler struct {
	fetcher   fetch.Fetcher
	extractor *Extractor
	baseURL   string
	opts      CrawlerOptions
}

func NewCrawler(fetcher fetch.Fetcher, extractor *Extractor, baseURL string, opts CrawlerOptions) *Crawler {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Crawler{
		fetcher:   fetcher,
		extractor: extractor,
		baseURL:   baseURL,
		opts:      opts,
	}
}

// Crawl returns one entry per discovered link, in discovery order
func (c *Crawler) Crawl(ctx context.Context, pages []Page) []models.Entry {
	return c.Extract(ctx, c.Discover(ctx, pages))
}

// Discover visits pages one at a time and concatenates their links. Links
// are not deduplicated; a listing promoted onto several pages is visited
// once per appearance.
func (c *Crawler) Discover(ctx context.Context, pages []Page) []string {
	var links []string
	for _, page := range pages {
		if ctx.Err() != nil {
			log.Warn().Str("site", c.opts.SiteID).Int("page", page.Index).Msg("discovery cancelled")
			break
		}

		doc, err := c.fetch(ctx, page.URL)
		if err != nil {
			log.Warn().Err(err).Str("site", c.opts.SiteID).Int("page", page.Index).Msg("index page failed")
			continue
		}

		found := ListingLinks(doc)
		metrics.DiscoveredURLs.WithLabelValues(c.opts.SiteID).Add(float64(len(found)))
		log.Debug().Str("site", c.opts.SiteID).Int("page", page.Index).Int("links", len(found)).Msg("index page parsed")
		links = append(links, found...)
	}
	return links
}

// Extract maps links to entries position by position. Each worker writes
// only its own slot, so no locking is needed.
func (c *Crawler) Extract(ctx context.Context, links []string) []models.Entry {
	entries := make([]models.Entry, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Workers)

	for i, link := range links {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			entry, err := c.extractOne(gctx, link)
			if err != nil {
				log.Warn().Err(err).Str("site", c.opts.SiteID).Str("url", link).Msg("listing extraction failed")
				metrics.ObserveListing(c.opts.SiteID, false)
				return nil
			}
			log.Debug().Str("site", c.opts.SiteID).Str("url", link).Msg("listing extracted")
			metrics.ObserveListing(c.opts.SiteID, true)
			entries[i] = entry
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

func (c *Crawler) extractOne(ctx context.Context, link string) (entry models.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			entry = models.Entry{}
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()

	doc, err := c.fetch(ctx, c.resolve(link))
	if err != nil {
		return models.Entry{}, err
	}
	return c.extractor.Extract(doc, link)
}

func (c *Crawler) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if c.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.FetchTimeout)
		defer cancel()
	}
	return c.fetcher.Fetch(ctx, url)
}

// Detail links on the index are relative to the site URL.
func (c *Crawler) resolve(link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return c.baseURL + link
}
