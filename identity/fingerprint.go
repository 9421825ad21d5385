package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"estate_dumps/models"
)

var (
	streetReplacements = map[string]string{
		"ulica":    "ul",
		"aleja":    "al",
		"aleje":    "al",
		"osiedle":  "os",
		"plac":     "pl",
		"rondo":    "rd",
		"skwer":    "skw",
		"bulwar":   "bulw",
		"wybrzeze": "wyb",
	}
	multiSpaceRegex = regexp.MustCompile(`\s+`)
	nonAlnumRegex   = regexp.MustCompile(`[^a-z0-9\s]`)
	wordRegex       = regexp.MustCompile(`[a-z0-9]+`)

	// ł has no decomposition, so it is folded by hand before stripping marks.
	polishStroke = strings.NewReplacer("ł", "l", "Ł", "L")
)

// Fingerprint is a stable key for one listing across dumps. Unlike
// Comparer it is exact: listings that differ in any keyed field get
// different fingerprints. Sentinel entries have no fingerprint.
func Fingerprint(e models.Entry) string {
	if e.IsEmpty() {
		return ""
	}
	input := fmt.Sprintf("%s|%s|%s|%s|%s|%.2f|%.2f|%d",
		e.OfferDetails.OfferKind,
		NormalizeText(e.OfferDetails.SellerContact.Telephone),
		e.PropertyAddress.City,
		NormalizeText(e.PropertyAddress.District),
		NormalizeStreet(e.PropertyAddress.StreetName),
		e.PropertyPrice.TotalGrossPrice,
		e.PropertyDetails.Area,
		e.PropertyDetails.NumberOfRooms,
	)
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}

// NormalizeText lowercases, strips Polish diacritics and collapses
// punctuation and whitespace.
func NormalizeText(s string) string {
	s = polishStroke.Replace(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = nonAlnumRegex.ReplaceAllString(strings.ToLower(s), " ")
	s = multiSpaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeStreet is NormalizeText with common street prefixes abbreviated:
// "Ulica Wielicka" and "ul. Wielicka" both become "ul wielicka".
func NormalizeStreet(street string) string {
	s := NormalizeText(street)
	return wordRegex.ReplaceAllStringFunc(s, func(w string) string {
		if abbrev, ok := streetReplacements[w]; ok {
			return abbrev
		}
		return w
	})
}
