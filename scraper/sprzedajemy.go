package scraper

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"estate_dumps/config"
	"estate_dumps/fetch"
	"estate_dumps/fields"
	"estate_dumps/metrics"
	"estate_dumps/models"
)

const (
	sprzedajemyURL      = "https://sprzedajemy.pl/nieruchomosci/mieszkania"
	sprzedajemyName     = "sprzedajemy.pl integration"
	sprzedajemyPageSize = 60
	// Without filters the site stops serving results past roughly 15000 offers.
	sprzedajemyMaxPages = 251
)

// SprzedajemyWebPage is the descriptor of the flat listings on sprzedajemy.pl.
// Only sales are listed there, but the feature flags are left undeclared.
func SprzedajemyWebPage() models.WebPage {
	return models.WebPage{
		URL:      sprzedajemyURL,
		Name:     sprzedajemyName,
		Features: models.WebPageFeatures{},
	}
}

type Sprzedajemy struct {
	page     models.WebPage
	pageSize int
	maxPages int
	crawler  *Crawler
	now      fields.NowFunc
}

func NewSprzedajemy(siteCfg *config.SiteConfig, fetcher fetch.Fetcher, now fields.NowFunc) *Sprzedajemy {
	if now == nil {
		now = time.Now
	}

	page := SprzedajemyWebPage()
	if siteCfg.URL != "" {
		page = siteCfg.WebPage()
	}

	pageSize := siteCfg.ItemsPerPage
	if pageSize <= 0 {
		pageSize = sprzedajemyPageSize
	}
	maxPages := siteCfg.MaxPages
	if maxPages <= 0 {
		maxPages = sprzedajemyMaxPages
	}

	crawler := NewCrawler(fetcher, NewExtractor(now), page.URL, CrawlerOptions{
		SiteID:       siteCfg.ID,
		Workers:      siteCfg.Workers,
		FetchTimeout: siteCfg.FetchTimeout,
	})

	return &Sprzedajemy{
		page:     page,
		pageSize: pageSize,
		maxPages: maxPages,
		crawler:  crawler,
		now:      now,
	}
}

func (s *Sprzedajemy) WebPage() models.WebPage {
	return s.page
}

// GenerateDump crawls the whole listing and always returns the dump it
// built. The error is only set when ctx ended before the crawl finished.
func (s *Sprzedajemy) GenerateDump(ctx context.Context) (*models.Dump, error) {
	start := s.now()
	entries := s.crawler.Crawl(ctx, Pages(s.page.URL, s.pageSize, s.maxPages))

	dump := models.NewDump(s.page, entries, s.now())
	metrics.DumpEntries.WithLabelValues(s.crawler.opts.SiteID).Set(float64(len(entries)))

	log.Info().
		Str("site", s.crawler.opts.SiteID).
		Int("entries", len(dump.Entries)).
		Int("failed", dump.Failures()).
		Dur("took", s.now().Sub(start)).
		Msg("dump generated")

	return dump, ctx.Err()
}
