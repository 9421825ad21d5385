package identity

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"estate_dumps/models"
)

// Mode selects how Comparer decides that two entries describe one property.
type Mode int

const (
	// Loose matches on offer kind plus any shared contact, price and address
	// signal. The relation is not transitive; use Clusters to group with it.
	Loose Mode = iota
	// Strict requires every identifying field to be equal. It is a true
	// equivalence and safe as a map key via Hash.
	Strict
)

type Comparer struct {
	mode Mode
}

func NewComparer(mode Mode) *Comparer {
	return &Comparer{mode: mode}
}

func (c *Comparer) Mode() Mode {
	return c.mode
}

// Equals ANDs four signal groups: offer kind, seller contact, price, address.
// In Loose mode each group after the first is an OR over its fields and an
// empty or zero field never counts as shared.
func (c *Comparer) Equals(a, b models.Entry) bool {
	if c.mode == Strict {
		return identifyingKey(a) == identifyingKey(b)
	}

	if a.OfferDetails.OfferKind != b.OfferDetails.OfferKind {
		return false
	}

	ac, bc := a.OfferDetails.SellerContact, b.OfferDetails.SellerContact
	contact := sameText(ac.Telephone, bc.Telephone) ||
		sameText(ac.Email, bc.Email) ||
		sameText(ac.Name, bc.Name)
	if !contact {
		return false
	}

	ap, bp := a.PropertyPrice, b.PropertyPrice
	price := sameAmount(ap.TotalGrossPrice, bp.TotalGrossPrice) ||
		sameAmount(ap.PricePerMeter, bp.PricePerMeter)
	if !price {
		return false
	}

	aa, ba := a.PropertyAddress, b.PropertyAddress
	return sameText(string(aa.City), string(ba.City)) ||
		sameText(aa.District, ba.District) ||
		sameText(aa.StreetName, ba.StreetName)
}

// Hash is consistent with Equals: entries that are Equal hash equal. Loose
// mode can only promise that for the offer kind, the one field it compares
// exactly; Strict mode XORs the hashes of all nine identifying fields.
func (c *Comparer) Hash(e models.Entry) uint64 {
	if c.mode == Loose {
		return hashInt(int64(e.OfferDetails.OfferKind))
	}

	k := identifyingKey(e)
	h := hashInt(int64(k.kind))
	h ^= xxhash.Sum64String(k.phone)
	h ^= xxhash.Sum64String(k.email)
	h ^= xxhash.Sum64String(k.name)
	h ^= hashFloat(k.total)
	h ^= hashFloat(k.perMeter)
	h ^= xxhash.Sum64String(string(k.city))
	h ^= xxhash.Sum64String(k.district)
	h ^= xxhash.Sum64String(k.street)
	return h
}

type key struct {
	kind     models.OfferKind
	phone    string
	email    string
	name     string
	total    float64
	perMeter float64
	city     models.PolishCity
	district string
	street   string
}

func identifyingKey(e models.Entry) key {
	return key{
		kind:     e.OfferDetails.OfferKind,
		phone:    e.OfferDetails.SellerContact.Telephone,
		email:    e.OfferDetails.SellerContact.Email,
		name:     e.OfferDetails.SellerContact.Name,
		total:    e.PropertyPrice.TotalGrossPrice,
		perMeter: e.PropertyPrice.PricePerMeter,
		city:     e.PropertyAddress.City,
		district: e.PropertyAddress.District,
		street:   e.PropertyAddress.StreetName,
	}
}

func sameText(a, b string) bool {
	return a != "" && a == b
}

func sameAmount(a, b float64) bool {
	return a != 0 && a == b
}

func hashInt(v int64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	return xxhash.Sum64(buf[:])
}

func hashFloat(v float64) uint64 {
	if v == 0 {
		// -0 == +0 must hash alike
		v = 0
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	return xxhash.Sum64(buf[:])
}
