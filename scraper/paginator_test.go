package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestPages(t *testing.T) {
	pages := Pages("https://sprzedajemy.pl/nieruchomosci/mieszkania", 60, 3)
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}

	wantOffsets := []int{0, 60, 120}
	for i, p := range pages {
		if p.Index != i {
			t.Errorf("page %d: index %d", i, p.Index)
		}
		if p.Offset != wantOffsets[i] {
			t.Errorf("page %d: offset %d, want %d", i, p.Offset, wantOffsets[i])
		}
	}

	want := "https://sprzedajemy.pl/nieruchomosci/mieszkania?items_per_page=60&offset=120"
	if pages[2].URL != want {
		t.Errorf("url = %q, want %q", pages[2].URL, want)
	}
}

func TestPagesZero(t *testing.T) {
	if pages := Pages("https://example.com", 60, 0); len(pages) != 0 {
		t.Fatalf("expected no pages, got %d", len(pages))
	}
}

func TestListingLinks(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(loadFixture(t, "index.html")))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	links := ListingLinks(doc)
	want := []string{
		"/mieszkanie-krakow-podgorze-nr12345",
		"/mieszkanie-lodz-baluty-nr12346",
		"/mieszkanie-krakow-podgorze-nr12345",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link %d = %q, want %q", i, links[i], want[i])
		}
	}
}
