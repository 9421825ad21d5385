package fields

import (
	"strconv"
	"strings"
)

func ParseIntOrDefault(text string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return def
	}
	return v
}

// ParseOptionalInt returns nil for missing or unparsable input
func ParseOptionalInt(text string) *int {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return nil
	}
	return &v
}
