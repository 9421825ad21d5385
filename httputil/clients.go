package httputil

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"time"
)

const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type Clients struct {
	Scraping *http.Client // optionally proxied, for target sites
	API      *http.Client // direct, for S3 and friends
}

// NewClients builds the shared clients. proxyURL may be empty.
func NewClients(proxyURL string, timeout time.Duration) *Clients {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		ForceAttemptHTTP2: false,
		TLSNextProto:      make(map[string]func(string, *tls.Conn) http.RoundTripper),
	}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}

	scraping := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}

	return &Clients{
		Scraping: scraping,
		API:      &http.Client{Timeout: 30 * time.Second},
	}
}
