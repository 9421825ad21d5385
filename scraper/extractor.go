package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"estate_dumps/fields"
	"estate_dumps/models"
)

var ErrRegionMissing = errors.New("required region missing")

// RegionError names the page region whose absence failed an extraction
type RegionError struct {
	Region string
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Region, ErrRegionMissing)
}

func (e *RegionError) Unwrap() error {
	return ErrRegionMissing
}

// Attribute labels of the details table
const (
	attrArea  = "Powierzchnia"
	attrRooms = "Liczba pokoi"
	attrFloor = "Piętro"
	attrYear  = "Rok budowy"
)

// Extractor turns one detail page into an Entry. It holds no per-listing
// state and is safe for concurrent use.
type Extractor struct {
	now fields.NowFunc
}

func NewExtractor(now fields.NowFunc) *Extractor {
	return &Extractor{now: now}
}

type detailRegions struct {
	info       *goquery.Selection // ul.offerAdditionalInfo
	details    *goquery.Selection // div.detailedInformations
	attributes *goquery.Selection // ul.attribute-list
	sellerBox  *goquery.Selection // div.additionalInfoBox
	detailed   *goquery.Selection // div.detailedInfo
	price      *goquery.Selection // div.priceWrp
}

// Extract reads every region of the page. Missing optional values fall back
// to defaults; a missing required region fails the whole listing.
func (x *Extractor) Extract(doc *goquery.Document, relURL string) (models.Entry, error) {
	r, err := locateRegions(doc)
	if err != nil {
		return models.Entry{}, err
	}

	contact, err := sellerContact(r.sellerBox)
	if err != nil {
		return models.Entry{}, err
	}

	created, err := x.creationDate(r.info)
	if err != nil {
		return models.Entry{}, err
	}

	address, err := propertyAddress(r.detailed, r.info)
	if err != nil {
		return models.Entry{}, err
	}

	price, err := propertyPrice(r.price)
	if err != nil {
		return models.Entry{}, err
	}

	return models.Entry{
		OfferDetails: models.OfferDetails{
			URL:              relURL,
			OfferKind:        models.OfferKindSale,
			IsStillValid:     true,
			SellerContact:    contact,
			CreationDateTime: created,
		},
		PropertyAddress: address,
		PropertyPrice:   price,
		PropertyDetails: propertyDetails(r.attributes),
		// Feature flags on this site are free text and too unreliable to map.
		PropertyFeatures: models.PropertyFeatures{},
		RawDescription:   strings.TrimSpace(r.details.Text()),
	}, nil
}

func locateRegions(doc *goquery.Document) (*detailRegions, error) {
	var r detailRegions
	var err error

	if r.info, err = required(doc.Selection, "ul.offerAdditionalInfo"); err != nil {
		return nil, err
	}
	if r.details, err = required(doc.Selection, "div.detailedInformations"); err != nil {
		return nil, err
	}
	if r.attributes, err = required(r.details, "div.attributes-box ul.attribute-list"); err != nil {
		return nil, err
	}

	additional, err := required(doc.Selection, "section.offerDetailsAdditional")
	if err != nil {
		return nil, err
	}
	if r.sellerBox, err = required(additional, "div.additionalInfoBox"); err != nil {
		return nil, err
	}
	if r.detailed, err = required(r.sellerBox, "div.detailedInfo"); err != nil {
		return nil, err
	}
	if r.price, err = required(additional, "div.priceWrp"); err != nil {
		return nil, err
	}
	return &r, nil
}

func required(root *goquery.Selection, selector string) (*goquery.Selection, error) {
	sel := root.Find(selector).First()
	if sel.Length() == 0 {
		return nil, &RegionError{Region: selector}
	}
	return sel, nil
}

func sellerContact(box *goquery.Selection) (models.SellerContact, error) {
	name, err := required(box, "strong.name")
	if err != nil {
		return models.SellerContact{}, err
	}

	var phone string
	if truncated := box.Find("span.phone-number-truncated").First(); truncated.Length() > 0 {
		prefix := truncated.ChildrenFiltered("span").First().Text()
		end, _ := truncated.Attr("data-phone-end")
		phone = strings.TrimSpace(prefix + " " + end)
	}

	// The site only offers in-service messaging, never an email address.
	return models.SellerContact{
		Name:      strings.TrimSpace(name.Text()),
		Telephone: phone,
		Email:     "",
	}, nil
}

func (x *Extractor) creationDate(info *goquery.Selection) (time.Time, error) {
	clock, err := required(info, "i.icon.icon-clock")
	if err != nil {
		return time.Time{}, err
	}
	created, err := fields.ParseRelativeDate(clock.Parent().Text(), x.now)
	if err != nil {
		return time.Time{}, fmt.Errorf("creation date: %w", err)
	}
	return created, nil
}

func propertyAddress(detailed, info *goquery.Selection) (models.PropertyAddress, error) {
	city, err := required(detailed, "span.locationName.trunc")
	if err != nil {
		return models.PropertyAddress{}, err
	}
	label, err := required(info, "a.locationName")
	if err != nil {
		return models.PropertyAddress{}, err
	}
	street, _ := label.Attr("data-details")

	address := fields.ParseAddress(city.Text(), label.Text(), street)
	if coords, ok := detailed.Find("div.user-contact-item.location.clickable").First().Attr("data-coordinates"); ok {
		address.DetailedAddress = strings.TrimSpace(coords)
	}
	return address, nil
}

// Prices on the page are rounded display strings.
func propertyPrice(wrap *goquery.Selection) (models.PropertyPrice, error) {
	total, err := required(wrap, "strong.price")
	if err != nil {
		return models.PropertyPrice{}, err
	}

	var perMeter float64
	if pm := wrap.Find("span.pricePerMeter").First(); pm.Length() > 0 {
		perMeter = fields.ParsePrice(pm.Text())
	}

	return models.PropertyPrice{
		TotalGrossPrice: fields.ParsePrice(total.Text()),
		PricePerMeter:   perMeter,
		ResidentalRent:  nil,
	}, nil
}

// Unknown labels are skipped so new rows on the page never break extraction.
func propertyDetails(list *goquery.Selection) models.PropertyDetails {
	var d models.PropertyDetails
	list.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		key := strings.TrimSpace(li.ChildrenFiltered("span").First().Text())
		value := strings.TrimSpace(li.ChildrenFiltered("strong").First().Text())

		switch key {
		case attrArea:
			d.Area = fields.ParsePrice(value)
		case attrRooms:
			d.NumberOfRooms = fields.ParseIntOrDefault(value, 0)
		case attrFloor:
			d.FloorNumber = fields.ParseOptionalInt(value)
		case attrYear:
			d.YearOfConstruction = fields.ParseOptionalInt(value)
		}
	})
	return d
}
