package main

import "testing"

func TestMaskConnectionString(t *testing.T) {
	cases := map[string]string{
		"postgres://dumps:secret@db:5432/estate": "postgres://dumps:****@db:5432/estate",
		"postgres://db:5432/estate":              "postgres://db:5432/estate",
		"dumps.db":                               "dumps.db",
	}
	for in, want := range cases {
		if got := maskConnectionString(in); got != want {
			t.Errorf("maskConnectionString(%q) = %q, want %q", in, got, want)
		}
	}
}
