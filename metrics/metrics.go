package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	FetchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estate_dumps", Name: "fetch_requests_total", Help: "Document fetches."},
		[]string{"fetcher", "result"}, // result: ok|error
	)
	FetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "estate_dumps", Name: "fetch_duration_seconds",
			Help:    "Document fetch duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"fetcher"},
	)
	DiscoveredURLs = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estate_dumps", Name: "discovered_urls_total", Help: "Listing URLs found on search pages."},
		[]string{"site"},
	)
	Listings = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "estate_dumps", Name: "listings_total", Help: "Listing extractions by outcome."},
		[]string{"site", "result"}, // result: ok|failed
	)
	DumpEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Namespace: "estate_dumps", Name: "dump_entries", Help: "Entries in the last dump."},
		[]string{"site"},
	)
)

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(FetchRequests, FetchLatency, DiscoveredURLs, Listings, DumpEntries)
	return reg
}

// Serve exposes /metrics on addr; an empty addr disables it
func Serve(addr string, reg *prometheus.Registry) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	go func() {
		srv := &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

func ObserveFetch(fetcher string, err error, dur time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	FetchRequests.WithLabelValues(fetcher, result).Inc()
	FetchLatency.WithLabelValues(fetcher).Observe(dur.Seconds())
}

func ObserveListing(site string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	Listings.WithLabelValues(site, result).Inc()
}
