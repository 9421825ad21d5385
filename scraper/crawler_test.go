package scraper

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const testBase = "https://sprzedajemy.test/mieszkania"

// stubFetcher serves fixture pages by URL. Unknown URLs fail.
type stubFetcher struct {
	t     *testing.T
	pages map[string]string
	fail  map[string]error
	panic map[string]bool

	mu      sync.Mutex
	fetched []string
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, url)
	s.mu.Unlock()

	if s.panic[url] {
		panic("boom")
	}
	if err, ok := s.fail[url]; ok {
		return nil, err
	}
	name, ok := s.pages[url]
	if !ok {
		return nil, errors.New("not found: " + url)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(loadFixture(s.t, name)))
}

func TestCrawlerIsolatesFailures(t *testing.T) {
	for _, workers := range []int{1, 4} {
		stub := &stubFetcher{
			t: t,
			pages: map[string]string{
				testBase + "/u1": "listing.html",
				testBase + "/u3": "listing_no_floor.html",
			},
			fail: map[string]error{testBase + "/u2": errors.New("connection reset")},
		}
		c := NewCrawler(stub, NewExtractor(fixedNow), testBase, CrawlerOptions{SiteID: "test", Workers: workers})

		entries := c.Extract(context.Background(), []string{"/u1", "/u2", "/u3"})
		if len(entries) != 3 {
			t.Fatalf("workers=%d: expected 3 entries, got %d", workers, len(entries))
		}
		if entries[0].IsEmpty() || entries[2].IsEmpty() {
			t.Fatalf("workers=%d: positions 0 and 2 should be populated", workers)
		}
		if !entries[1].IsEmpty() {
			t.Errorf("workers=%d: position 1 should be the empty entry", workers)
		}
		if entries[0].OfferDetails.URL != "/u1" || entries[2].OfferDetails.URL != "/u3" {
			t.Errorf("workers=%d: order not preserved: %q, %q", workers,
				entries[0].OfferDetails.URL, entries[2].OfferDetails.URL)
		}
		if entries[2].PropertyDetails.FloorNumber != nil {
			t.Errorf("workers=%d: u3 has no floor", workers)
		}
	}
}

func TestCrawlerRecoversPanics(t *testing.T) {
	stub := &stubFetcher{
		t:     t,
		pages: map[string]string{testBase + "/ok": "listing.html"},
		panic: map[string]bool{testBase + "/bad": true},
	}
	c := NewCrawler(stub, NewExtractor(fixedNow), testBase, CrawlerOptions{SiteID: "test"})

	entries := c.Extract(context.Background(), []string{"/bad", "/ok"})
	if !entries[0].IsEmpty() {
		t.Error("panicking listing should become the empty entry")
	}
	if entries[1].IsEmpty() {
		t.Error("listing after a panic should still be extracted")
	}
}

func TestCrawlerMissingRegionIsSentinel(t *testing.T) {
	stub := &stubFetcher{
		t:     t,
		pages: map[string]string{testBase + "/noprice": "listing_no_price.html"},
	}
	c := NewCrawler(stub, NewExtractor(fixedNow), testBase, CrawlerOptions{SiteID: "test"})

	entries := c.Extract(context.Background(), []string{"/noprice"})
	if len(entries) != 1 || !entries[0].IsEmpty() {
		t.Fatalf("expected one empty entry, got %+v", entries)
	}
}

func TestCrawlerDiscoverKeepsDuplicatesAndSkipsFailedPages(t *testing.T) {
	pages := Pages(testBase, 60, 3)
	stub := &stubFetcher{
		t: t,
		pages: map[string]string{
			pages[0].URL: "index.html",
			pages[2].URL: "index.html",
		},
		fail: map[string]error{pages[1].URL: errors.New("timeout")},
	}
	c := NewCrawler(stub, NewExtractor(fixedNow), testBase, CrawlerOptions{SiteID: "test"})

	links := c.Discover(context.Background(), pages)
	if len(links) != 6 {
		t.Fatalf("expected 6 links from two pages, got %d: %v", len(links), links)
	}
	if links[0] != links[2] {
		t.Errorf("duplicate listing should be kept: %v", links)
	}
	if len(stub.fetched) != 3 {
		t.Errorf("every page should be attempted, fetched %v", stub.fetched)
	}
}

func TestCrawlerFetchTimeout(t *testing.T) {
	slow := fetcherFunc(func(ctx context.Context, url string) (*goquery.Document, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	c := NewCrawler(slow, NewExtractor(fixedNow), testBase, CrawlerOptions{SiteID: "test", FetchTimeout: 10 * time.Millisecond})

	entries := c.Extract(context.Background(), []string{"/a", "/b"})
	if len(entries) != 2 || !entries[0].IsEmpty() || !entries[1].IsEmpty() {
		t.Fatalf("timed out fetches should yield empty entries: %+v", entries)
	}
}

func TestResolve(t *testing.T) {
	c := NewCrawler(nil, nil, testBase, CrawlerOptions{})
	if got := c.resolve("/oferta-1"); got != testBase+"/oferta-1" {
		t.Errorf("relative = %q", got)
	}
	if got := c.resolve("https://other.test/x"); got != "https://other.test/x" {
		t.Errorf("absolute = %q", got)
	}
}

type fetcherFunc func(ctx context.Context, url string) (*goquery.Document, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return f(ctx, url)
}
