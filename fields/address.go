package fields

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"estate_dumps/models"
)

var polishUpperDiacritics = strings.NewReplacer(
	"Ą", "A",
	"Ć", "C",
	"Ę", "E",
	"Ł", "L",
	"Ń", "N",
	"Ó", "O",
	"Ś", "S",
	"Ż", "Z",
	"Ź", "Z",
)

var citySeparators = strings.NewReplacer(" ", "_", "-", "_")

// NormalizeCity uppercases a scraped city name, folds Polish diacritics and
// joins words with '_', e.g. "Zielona Góra" -> "ZIELONA_GORA".
func NormalizeCity(raw string) string {
	// Caser is stateful, one per call
	upper := cases.Upper(language.Polish).String(strings.TrimSpace(raw))
	upper = polishUpperDiacritics.Replace(upper)
	return citySeparators.Replace(strings.Join(strings.Fields(upper), " "))
}

// ResolveCity maps a scraped city name onto the known cities, CityUnknown otherwise
func ResolveCity(raw string) models.PolishCity {
	city, _ := models.ParsePolishCity(NormalizeCity(raw))
	return city
}

// ParseDistrict takes the part of the location label that follows the city
// name, up to the next comma: ("Kraków", "Kraków Podgórze, ul. Wielicka") -> "Podgórze".
func ParseDistrict(cityRaw, label string) string {
	city := []rune(strings.TrimSpace(cityRaw))
	rest := []rune(strings.TrimSpace(label))
	if len(rest) < len(city) {
		return ""
	}
	rest = rest[len(city):]

	district := string(rest)
	if i := strings.IndexRune(district, ','); i >= 0 {
		district = district[:i]
	}
	return strings.TrimSpace(district)
}

// ParseAddress builds the address from the city text, the location label the
// district is cut from, and the street attribute (may be empty).
func ParseAddress(cityRaw, locationLabel, street string) models.PropertyAddress {
	addr := models.PropertyAddress{
		City:       ResolveCity(cityRaw),
		District:   ParseDistrict(cityRaw, locationLabel),
		StreetName: strings.TrimSpace(street),
	}
	if addr.City == models.CityUnknown {
		addr.CityRaw = strings.TrimSpace(cityRaw)
	}
	return addr
}
