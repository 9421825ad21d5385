package models

import (
	"time"
)

// OfferKind is the kind of transaction an offer is for
type OfferKind int

const (
	OfferKindUnknown OfferKind = iota
	OfferKindSale
	OfferKindRent
)

func (k OfferKind) String() string {
	switch k {
	case OfferKindSale:
		return "SALE"
	case OfferKindRent:
		return "RENT"
	default:
		return "UNKNOWN"
	}
}

// Entry is one canonical listing observation. The zero value is the sentinel
// entry emitted when a listing could not be extracted.
type Entry struct {
	OfferDetails     OfferDetails     `json:"offer_details"`
	PropertyAddress  PropertyAddress  `json:"property_address"`
	PropertyPrice    PropertyPrice    `json:"property_price"`
	PropertyDetails  PropertyDetails  `json:"property_details"`
	PropertyFeatures PropertyFeatures `json:"property_features"`
	RawDescription   string           `json:"raw_description"`
}

// IsEmpty reports whether e is the sentinel entry
func (e Entry) IsEmpty() bool {
	return e == Entry{}
}

type OfferDetails struct {
	URL              string        `json:"url"`
	OfferKind        OfferKind     `json:"offer_kind"`
	IsStillValid     bool          `json:"is_still_valid"`
	SellerContact    SellerContact `json:"seller_contact"`
	CreationDateTime time.Time     `json:"creation_date_time"`
}

// SellerContact fields may be empty; identity never requires all three.
type SellerContact struct {
	Name      string `json:"name"`
	Telephone string `json:"telephone"`
	Email     string `json:"email"`
}

type PropertyAddress struct {
	City            PolishCity `json:"city"`
	CityRaw         string     `json:"city_raw"` // as scraped, kept when City is CityUnknown
	District        string     `json:"district"`
	StreetName      string     `json:"street_name"`
	DetailedAddress string     `json:"detailed_address"` // "lat,lng" when the page exposes coordinates
}

type PropertyPrice struct {
	TotalGrossPrice float64  `json:"total_gross_price"`
	PricePerMeter   float64  `json:"price_per_meter"` // 0 when unknown
	ResidentalRent  *float64 `json:"residental_rent"`
}

type PropertyDetails struct {
	Area               float64 `json:"area"`
	NumberOfRooms      int     `json:"number_of_rooms"`
	FloorNumber        *int    `json:"floor_number"`
	YearOfConstruction *int    `json:"year_of_construction"`
}

// PropertyFeatures is best effort. A nil flag means the source did not say,
// never that the feature is absent.
type PropertyFeatures struct {
	Balconies        *bool `json:"balconies,omitempty"`
	BasementArea     *bool `json:"basement_area,omitempty"`
	OutdoorParking   *bool `json:"outdoor_parking,omitempty"`
	IndoorParking    *bool `json:"indoor_parking,omitempty"`
	Elevator         *bool `json:"elevator,omitempty"`
	GardenArea       *bool `json:"garden_area,omitempty"`
	IsFurnished      *bool `json:"is_furnished,omitempty"`
	DisabledFriendly *bool `json:"disabled_friendly,omitempty"`
	ClosedTerritory  *bool `json:"closed_territory,omitempty"`
}
