package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetch(t *testing.T) {
	ObserveFetch("test_fetcher", nil, 10*time.Millisecond)
	ObserveFetch("test_fetcher", errors.New("boom"), 10*time.Millisecond)
	ObserveFetch("test_fetcher", nil, 10*time.Millisecond)

	if got := testutil.ToFloat64(FetchRequests.WithLabelValues("test_fetcher", "ok")); got != 2 {
		t.Fatalf("expected 2 ok fetches, got %v", got)
	}
	if got := testutil.ToFloat64(FetchRequests.WithLabelValues("test_fetcher", "error")); got != 1 {
		t.Fatalf("expected 1 failed fetch, got %v", got)
	}
}

func TestObserveListing(t *testing.T) {
	ObserveListing("test_site", true)
	ObserveListing("test_site", false)
	ObserveListing("test_site", false)

	if got := testutil.ToFloat64(Listings.WithLabelValues("test_site", "failed")); got != 2 {
		t.Fatalf("expected 2 failed listings, got %v", got)
	}
}

func TestInitRegistry(t *testing.T) {
	reg := InitRegistry()
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("gather failed: %v", err)
	}
}
