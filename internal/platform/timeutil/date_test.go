package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestDateFormatFormat(t *testing.T) {
	f := NewDateFormat()
	if got := f.Format(1990, time.March, 7); got != "1990-03-07" {
		t.Fatalf("expected 1990-03-07, got %s", got)
	}
}

func TestDateFormatIgnoresHostZone(t *testing.T) {
	orig := time.Local
	time.Local = time.FixedZone("UTC-10", -10*3600)
	defer func() { time.Local = orig }()

	if got := NewDateFormat().Format(2000, time.January, 1); got != "2000-01-01" {
		t.Fatalf("expected 2000-01-01 regardless of local zone, got %s", got)
	}
}

func TestDateFormatYearBoundary(t *testing.T) {
	// Week-based year formatting would render this as 2021.
	if got := NewDateFormat().Format(2020, time.December, 31); got != "2020-12-31" {
		t.Fatalf("expected 2020-12-31, got %s", got)
	}
}

func TestDateFormatParse(t *testing.T) {
	y, m, d, err := NewDateFormat().Parse("1984-02-29")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if y != 1984 || m != time.February || d != 29 {
		t.Fatalf("unexpected date %d-%d-%d", y, m, d)
	}
}

func TestDateFormatParseInvalid(t *testing.T) {
	for _, in := range []string{"", "1984-13-01", "29.02.1984", "1985-02-29"} {
		if _, _, _, err := NewDateFormat().Parse(in); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("Parse(%q): expected ErrInvalidDate, got %v", in, err)
		}
	}
}

func TestZeroDateFormatDefaults(t *testing.T) {
	var f DateFormat
	if got := f.Format(2024, time.May, 5); got != "2024-05-05" {
		t.Fatalf("expected zero value to use defaults, got %s", got)
	}
}
