package fields

import (
	"strconv"
	"strings"
)

// ParsePrice keeps the digits and decimal separators of a display string
// ("450 000 zł", "7 500,50 zł/m²") and parses what is left. Both '.' and ','
// count as the decimal separator. Returns 0 when nothing parses.
func ParsePrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ',':
			b.WriteByte('.')
		}
	}

	s := b.String()
	if s == "" || s == "." {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
