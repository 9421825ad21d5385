package scraper

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate_dumps/fields"
	"estate_dumps/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func loadDoc(t *testing.T, name string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(loadFixture(t, name)))
	if err != nil {
		t.Fatalf("parse fixture %s: %v", name, err)
	}
	return doc
}

func TestExtractFullListing(t *testing.T) {
	x := NewExtractor(fixedNow)
	e, err := x.Extract(loadDoc(t, "listing.html"), "/mieszkanie-krakow-podgorze-nr12345")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	offer := e.OfferDetails
	if offer.URL != "/mieszkanie-krakow-podgorze-nr12345" {
		t.Errorf("url = %q", offer.URL)
	}
	if offer.OfferKind != models.OfferKindSale || !offer.IsStillValid {
		t.Errorf("offer kind %v valid %v", offer.OfferKind, offer.IsStillValid)
	}
	if want := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC); !offer.CreationDateTime.Equal(want) {
		t.Errorf("created = %v, want %v", offer.CreationDateTime, want)
	}

	contact := offer.SellerContact
	if contact.Name != "Anna Nowak" || contact.Telephone != "123 456 789" || contact.Email != "" {
		t.Errorf("contact = %+v", contact)
	}

	addr := e.PropertyAddress
	if addr.City != models.CityKrakow || addr.CityRaw != "" {
		t.Errorf("city = %q raw %q", addr.City, addr.CityRaw)
	}
	if addr.District != "Podgórze" {
		t.Errorf("district = %q", addr.District)
	}
	if addr.StreetName != "ul. Wielicka" {
		t.Errorf("street = %q", addr.StreetName)
	}
	if addr.DetailedAddress != "50.0614,19.9366" {
		t.Errorf("detailed = %q", addr.DetailedAddress)
	}

	price := e.PropertyPrice
	if price.TotalGrossPrice != 420000 || price.PricePerMeter != 8660 || price.ResidentalRent != nil {
		t.Errorf("price = %+v", price)
	}

	details := e.PropertyDetails
	if details.Area != 48.5 || details.NumberOfRooms != 2 {
		t.Errorf("area %v rooms %d", details.Area, details.NumberOfRooms)
	}
	if details.FloorNumber == nil || *details.FloorNumber != 3 {
		t.Errorf("floor = %v", details.FloorNumber)
	}
	if details.YearOfConstruction == nil || *details.YearOfConstruction != 2012 {
		t.Errorf("year = %v", details.YearOfConstruction)
	}

	if e.PropertyFeatures != (models.PropertyFeatures{}) {
		t.Errorf("features should stay empty: %+v", e.PropertyFeatures)
	}
	if !strings.Contains(e.RawDescription, "Słoneczne mieszkanie") {
		t.Errorf("description = %q", e.RawDescription)
	}
}

func TestExtractMissingPriceFails(t *testing.T) {
	x := NewExtractor(fixedNow)
	e, err := x.Extract(loadDoc(t, "listing_no_price.html"), "/oferta")
	if !errors.Is(err, ErrRegionMissing) {
		t.Fatalf("expected ErrRegionMissing, got %v", err)
	}

	var regionErr *RegionError
	if !errors.As(err, &regionErr) || regionErr.Region != "div.priceWrp" {
		t.Errorf("region error = %v", err)
	}
	if !e.IsEmpty() {
		t.Errorf("failed extraction must return the empty entry, got %+v", e)
	}
}

func TestExtractMissingFloorIsOptional(t *testing.T) {
	x := NewExtractor(fixedNow)
	e, err := x.Extract(loadDoc(t, "listing_no_floor.html"), "/oferta")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if e.PropertyDetails.FloorNumber != nil {
		t.Errorf("floor should be absent, got %d", *e.PropertyDetails.FloorNumber)
	}
	if e.PropertyDetails.NumberOfRooms != 2 || e.PropertyPrice.TotalGrossPrice != 420000 {
		t.Errorf("other fields missing: %+v", e)
	}
	if e.PropertyAddress.City != models.CityKrakow {
		t.Errorf("city = %q", e.PropertyAddress.City)
	}
}

func TestExtractUnknownMonthFails(t *testing.T) {
	html := strings.Replace(loadFixture(t, "listing.html"), "Dzisiaj 10:30", "03 Xyz 10:30", 1)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	x := NewExtractor(fixedNow)
	if _, err := x.Extract(doc, "/oferta"); err == nil {
		t.Fatal("expected error for unknown month")
	}
}

func TestExtractImpossibleDateFails(t *testing.T) {
	html := strings.Replace(loadFixture(t, "listing.html"), "Dzisiaj 10:30", "31 Lut 10:30", 1)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	x := NewExtractor(fixedNow)
	e, err := x.Extract(doc, "/oferta")
	if !errors.Is(err, fields.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if !e.IsEmpty() {
		t.Fatalf("expected sentinel entry, got %+v", e)
	}
}

func TestExtractOptionalContactFields(t *testing.T) {
	html := loadFixture(t, "listing.html")
	html = strings.Replace(html, `<span class="phone-number-truncated" data-phone-end="789"><span>123 456</span> pokaż numer</span>`, "", 1)
	html = strings.Replace(html, ` data-coordinates="50.0614,19.9366"`, "", 1)
	html = strings.Replace(html, ` data-details="ul. Wielicka"`, "", 1)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	e, err := NewExtractor(fixedNow).Extract(doc, "/oferta")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if e.OfferDetails.SellerContact.Telephone != "" {
		t.Errorf("phone = %q", e.OfferDetails.SellerContact.Telephone)
	}
	if e.PropertyAddress.DetailedAddress != "" || e.PropertyAddress.StreetName != "" {
		t.Errorf("address = %+v", e.PropertyAddress)
	}
}
