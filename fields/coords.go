package fields

import (
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 9

// ParseCoordinates reads a "lat,lng" (or "lat;lng") detailed address
func ParseCoordinates(detailed string) (lat, lng float64, ok bool) {
	parts := strings.FieldsFunc(detailed, func(r rune) bool {
		return r == ',' || r == ';'
	})
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, false
	}
	return lat, lng, true
}

// Geohash encodes the detailed address coordinates, "" when there are none
func Geohash(detailed string) string {
	lat, lng, ok := ParseCoordinates(detailed)
	if !ok {
		return ""
	}
	return geohash.EncodeWithPrecision(lat, lng, geohashPrecision)
}
