package models

import (
	"time"

	"github.com/google/uuid"
)

// WebPage describes one integrated site and the offer kinds it declares support for
type WebPage struct {
	URL      string          `json:"url" yaml:"url"`
	Name     string          `json:"name" yaml:"name"`
	Features WebPageFeatures `json:"features" yaml:"features"`
}

type WebPageFeatures struct {
	HomeSale    bool `json:"home_sale" yaml:"home_sale"`
	HomeRental  bool `json:"home_rental" yaml:"home_rental"`
	HouseSale   bool `json:"house_sale" yaml:"house_sale"`
	HouseRental bool `json:"house_rental" yaml:"house_rental"`
}

// Dump is the result of one crawl run. Entries[i] corresponds to the i-th
// discovered listing URL. A Dump is not modified after it is built.
type Dump struct {
	ID       uuid.UUID `json:"id"`
	DateTime time.Time `json:"date_time"`
	WebPage  WebPage   `json:"web_page"`
	Entries  []Entry   `json:"entries"`
}

func NewDump(page WebPage, entries []Entry, at time.Time) *Dump {
	return &Dump{
		ID:       uuid.New(),
		DateTime: at,
		WebPage:  page,
		Entries:  entries,
	}
}

// Failures counts sentinel entries
func (d *Dump) Failures() int {
	n := 0
	for _, e := range d.Entries {
		if e.IsEmpty() {
			n++
		}
	}
	return n
}
