// Package stddate normalizes loosely formatted dates into ISO 8601
// (YYYY-MM-DD).
package stddate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Order of day, month and year in the input.
type Style int

const (
	Guess Style = iota
	DMY
	MDY
	YMD
)

var ErrAmbiguous = errors.New("date too ambiguous to guess")

// Converts s, with components separated by delimiter, to YYYY-MM-DD.
//
// Two digit years up to now's year in the current century are taken
// to be in the 2000s, the rest in the 1900s. Guess picks an order from
// the magnitudes of the components and fails with ErrAmbiguous when
// day and month could be swapped.
func ToStandardDate(s, delimiter string, style Style, now time.Time) (string, error) {
	if delimiter == "" {
		return "", fmt.Errorf("empty delimiter")
	}

	parts := strings.Split(s, delimiter)
	if len(parts) != 3 {
		return "", fmt.Errorf("date must have 3 parts, not %d", len(parts))
	}

	c := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return "", fmt.Errorf("parsing date component '%s': %w", p, err)
		}
		c[i] = n
	}

	var year, month, day int
	switch style {
	case DMY:
		day, month, year = c[0], c[1], c[2]
	case MDY:
		month, day, year = c[0], c[1], c[2]
	case YMD:
		year, month, day = c[0], c[1], c[2]
	case Guess:
		switch {
		case c[0] > 12 && c[1] <= 12 && c[2] > 31:
			day, month, year = c[0], c[1], c[2]
		case c[0] <= 12 && c[1] <= 31 && c[2] > 31:
			month, day, year = c[0], c[1], c[2]
			if day <= 12 {
				return "", fmt.Errorf("%w: %s", ErrAmbiguous, s)
			}
		default:
			year, month, day = c[0], c[1], c[2]
		}
	default:
		return "", fmt.Errorf("unknown date style %d", style)
	}

	if year >= 0 && year < 100 {
		if year <= now.Year()-2000 {
			year += 2000
		} else {
			year += 1900
		}
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}

	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

func ParseStyle(s string) (Style, error) {
	switch strings.ToLower(s) {
	case "guess", "":
		return Guess, nil
	case "dmy":
		return DMY, nil
	case "mdy":
		return MDY, nil
	case "ymd":
		return YMD, nil
	}
	return 0, fmt.Errorf("unknown date style '%s'", s)
}
