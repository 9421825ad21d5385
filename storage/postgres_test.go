package storage

import (
	"testing"

	"estate_dumps/identity"
	"estate_dumps/models"
)

func TestListingUpsertsOncePerFingerprint(t *testing.T) {
	dump := sampleDump() // entry, sentinel, same entry again

	other := dump.Entries[0]
	other.OfferDetails.URL = "/mieszkanie-krakow-nr2"
	other.PropertyPrice.TotalGrossPrice = 510000
	entries := append(dump.Entries, other)

	got := listingUpserts(entries)
	if len(got) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(got))
	}
	if got[0].fingerprint != identity.Fingerprint(entries[0]) {
		t.Errorf("first upsert fingerprint = %q", got[0].fingerprint)
	}
	if got[0].entry.OfferDetails.URL != "/mieszkanie-krakow-nr1" {
		t.Errorf("first upsert should keep the first occurrence, got %q", got[0].entry.OfferDetails.URL)
	}
	if got[1].entry.OfferDetails.URL != "/mieszkanie-krakow-nr2" {
		t.Errorf("second upsert url = %q", got[1].entry.OfferDetails.URL)
	}
}

func TestListingUpsertsSameFingerprintDifferentURL(t *testing.T) {
	a := sampleDump().Entries[0]
	b := a
	b.OfferDetails.URL = "/promowane/mieszkanie-krakow-nr1"

	if identity.Fingerprint(a) != identity.Fingerprint(b) {
		t.Fatal("url should not be part of the fingerprint")
	}
	if got := listingUpserts([]models.Entry{a, b}); len(got) != 1 {
		t.Fatalf("expected 1 upsert, got %d", len(got))
	}
}

func TestListingUpsertsSkipsSentinels(t *testing.T) {
	if got := listingUpserts([]models.Entry{{}, {}}); len(got) != 0 {
		t.Fatalf("expected no upserts, got %d", len(got))
	}
}
