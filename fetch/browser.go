package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"

	"estate_dumps/metrics"
)

const defaultBrowserTimeout = 60 * time.Second

// BrowserFetcher renders pages in a single headless Chromium tab. The tab is
// shared, so fetches are serialized no matter how many workers call in.
type BrowserFetcher struct {
	mu          sync.Mutex
	pw          *playwright.Playwright
	browser     playwright.Browser
	page        playwright.Page
	headless    bool
	timeout     time.Duration
	initialized bool
}

func NewBrowserFetcher(opts Options) *BrowserFetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultBrowserTimeout
	}
	return &BrowserFetcher{headless: opts.Headless, timeout: timeout}
}

func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (doc *goquery.Document, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := time.Now()
	defer func() { metrics.ObserveFetch(string(KindBrowser), err, time.Since(start)) }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.ensureBrowser(); err != nil {
		return nil, err
	}

	timeout, err := navigationTimeout(ctx, f.timeout)
	if err != nil {
		return nil, err
	}

	resp, err := f.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return nil, fmt.Errorf("navigate: %w", err)
	}
	if resp != nil && resp.Status() != 200 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.Status())
	}

	content, err := f.page.Content()
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	doc, err = goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// navigationTimeout caps limit by the time left on ctx. Playwright reads a zero
// timeout as no timeout at all, so anything under a millisecond is reported
// as an expired deadline instead.
func navigationTimeout(ctx context.Context, limit time.Duration) (time.Duration, error) {
	timeout := limit
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout < time.Millisecond {
		return 0, context.DeadlineExceeded
	}
	return timeout, nil
}

func (f *BrowserFetcher) ensureBrowser() error {
	if f.initialized {
		return nil
	}

	var err error
	f.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	f.browser, err = f.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		f.pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	f.page, err = f.browser.NewPage()
	if err != nil {
		f.browser.Close()
		f.pw.Stop()
		return fmt.Errorf("failed to create page: %w", err)
	}

	f.initialized = true
	return nil
}

func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.page != nil {
		f.page.Close()
		f.page = nil
	}
	if f.browser != nil {
		f.browser.Close()
		f.browser = nil
	}
	if f.pw != nil {
		f.pw.Stop()
		f.pw = nil
	}
	f.initialized = false
	return nil
}
