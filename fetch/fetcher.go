package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

// Fetcher loads a URL into a queryable document. Errors cover network
// failures, non-200 responses and unparsable markup alike.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

type Kind string

const (
	KindHTTP    Kind = "http"
	KindColly   Kind = "colly"
	KindBrowser Kind = "browser"
)

type Options struct {
	Client    *http.Client // used by KindHTTP
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond paces every request through one limiter; 0 disables pacing.
	RequestsPerSecond float64
	Headless          bool
}

// New builds the fetcher of the given kind. Unknown kinds fall back to plain HTTP.
func New(kind Kind, opts Options) (Fetcher, error) {
	switch kind {
	case KindColly:
		return NewCollyFetcher(opts), nil
	case KindBrowser:
		return NewBrowserFetcher(opts), nil
	case KindHTTP, "":
		return NewHTTPFetcher(opts), nil
	default:
		return nil, fmt.Errorf("unknown fetcher kind: %s", kind)
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(rps), 1)
}
