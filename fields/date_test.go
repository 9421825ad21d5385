package fields

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func TestParseRelativeDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"Dzisiaj 10:30", time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)},
		{"Wczoraj 23:59", time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC)},
		{"01 Sty 08:00", time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)},
		{"Dodano: 22 Paź 17:05", time.Date(2024, time.October, 22, 17, 5, 0, 0, time.UTC)},
		{"  Dzisiaj 00:01\n", time.Date(2024, time.March, 15, 0, 1, 0, 0, time.UTC)},
		{"kiedyś", fixedNow()},
		{"", fixedNow()},
	}

	for _, tt := range tests {
		got, err := ParseRelativeDate(tt.in, fixedNow)
		if err != nil {
			t.Fatalf("ParseRelativeDate(%q): %v", tt.in, err)
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseRelativeDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseRelativeDateYesterdayCrossesMonth(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC) }

	got, err := ParseRelativeDate("Wczoraj 20:15", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.February, 29, 20, 15, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseRelativeDateUnknownMonth(t *testing.T) {
	_, err := ParseRelativeDate("12 Xyz 10:00", fixedNow)
	if !errors.Is(err, ErrUnknownMonth) {
		t.Fatalf("expected ErrUnknownMonth, got %v", err)
	}
}

func TestParseRelativeDateTodayWins(t *testing.T) {
	// both the today form and the regular form are present; today is tried first
	got, err := ParseRelativeDate("Dzisiaj 07:45 (01 Sty 08:00)", fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.March, 15, 7, 45, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestParseRelativeDateRejectsImpossibleValues(t *testing.T) {
	for _, in := range []string{
		"31 Lut 10:00",
		"30 Lut 10:00",
		"00 Sty 10:00",
		"31 Kwi 10:00",
		"15 Mar 25:61",
		"15 Mar 24:00",
		"15 Mar 10:60",
		"Dzisiaj 24:00",
		"Wczoraj 12:75",
	} {
		if _, err := ParseRelativeDate(in, fixedNow); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseRelativeDate(%q): expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestParseRelativeDateLeapDay(t *testing.T) {
	got, err := ParseRelativeDate("29 Lut 23:59", fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
