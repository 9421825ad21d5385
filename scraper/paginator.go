package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page is one listing-index fetch. Offsets advance by the page size.
type Page struct {
	Index  int
	Offset int
	URL    string
}

// Pages enumerates exactly maxPages index pages. The enumeration never looks
// at page content, so trailing pages past the last listing come back empty.
func Pages(baseURL string, pageSize, maxPages int) []Page {
	if maxPages <= 0 {
		return nil
	}
	pages := make([]Page, maxPages)
	for i := range pages {
		offset := i * pageSize
		pages[i] = Page{
			Index:  i,
			Offset: offset,
			URL:    fmt.Sprintf("%s?items_per_page=%d&offset=%d", baseURL, pageSize, offset),
		}
	}
	return pages
}

// ListingLinks returns the relative detail hrefs found under the title links
// of an index page, in page order.
func ListingLinks(doc *goquery.Document) []string {
	var links []string
	doc.Find("div.cntListBody h2.title > a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		if href = strings.TrimSpace(href); href != "" {
			links = append(links, href)
		}
	})
	return links
}
