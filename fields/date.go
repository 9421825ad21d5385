package fields

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	ErrUnknownMonth = errors.New("unknown month abbreviation")
	ErrInvalidDate  = errors.New("invalid date")
)

// NowFunc supplies the reference time for relative dates
type NowFunc func() time.Time

var (
	todayRegex     = regexp.MustCompile(`Dzisiaj (\d{2}):(\d{2})`)
	yesterdayRegex = regexp.MustCompile(`Wczoraj (\d{2}):(\d{2})`)
	regularRegex   = regexp.MustCompile(`(\d{2}) (.{3}) (\d{2}):(\d{2})`)

	monthBindings = map[string]time.Month{
		"Sty": time.January,
		"Lut": time.February,
		"Mar": time.March,
		"Kwi": time.April,
		"Maj": time.May,
		"Cze": time.June,
		"Lip": time.July,
		"Sie": time.August,
		"Wrz": time.September,
		"Paź": time.October,
		"Lis": time.November,
		"Gru": time.December,
	}
)

// ParseRelativeDate reads the offer creation label. Forms are tried in order:
// "Dzisiaj HH:MM", "Wczoraj HH:MM", "DD Mmm HH:MM". The page never shows a
// year, so the current one is assumed. Text matching none of the forms yields
// now() itself.
func ParseRelativeDate(text string, now NowFunc) (time.Time, error) {
	ref := now()

	if m := todayRegex.FindStringSubmatch(text); m != nil {
		return atClock(ref, m[1], m[2])
	}

	if m := yesterdayRegex.FindStringSubmatch(text); m != nil {
		return atClock(ref.AddDate(0, 0, -1), m[1], m[2])
	}

	if m := regularRegex.FindStringSubmatch(text); m != nil {
		month, ok := monthBindings[m[2]]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %q", ErrUnknownMonth, m[2])
		}
		day, _ := strconv.Atoi(m[1])
		if day < 1 || day > daysIn(month, ref.Year()) {
			return time.Time{}, fmt.Errorf("%w: day %d of %s", ErrInvalidDate, day, month)
		}
		return atClock(time.Date(ref.Year(), month, day, 0, 0, 0, 0, ref.Location()), m[3], m[4])
	}

	return ref, nil
}

// atClock sets the time of day on day. Out-of-range clock values are an
// error rather than being carried into the next day.
func atClock(day time.Time, hh, mm string) (time.Time, error) {
	hour, _ := strconv.Atoi(hh)
	minute, _ := strconv.Atoi(mm)
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: clock %s:%s", ErrInvalidDate, hh, mm)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
