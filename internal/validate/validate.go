// Package validate holds the field-level checks shared by every resume
// section and the registration form. Every function is total: malformed input
// yields false, never a panic.
package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of every date field (HTML date inputs).
const DateLayout = "2006-01-02"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// ten digits, each optionally followed by one space or hyphen
	phoneRe = regexp.MustCompile(`^(?:\d[\s-]?){9}\d$`)
	urlRe   = regexp.MustCompile(`^(https?://)?([\w\-]+\.)+[\w\-]{2,}(/[\w\-._~:/?#\[\]@!$&'()*+,;=.]+)?$`)
	yearRe  = regexp.MustCompile(`^[0-9]{4}$`)
)

// Required reports whether v has any non-whitespace content.
func Required(v string) bool {
	return strings.TrimSpace(v) != ""
}

func Email(v string) bool {
	return emailRe.MatchString(strings.TrimSpace(v))
}

// Phone accepts exactly ten digits with an optional single space or hyphen
// after any digit but the last.
func Phone(v string) bool {
	return phoneRe.MatchString(strings.TrimSpace(v))
}

// URL accepts scheme-optional host.tld with an optional path.
func URL(v string) bool {
	return urlRe.MatchString(strings.TrimSpace(v))
}

// Year accepts iff the trimmed value is exactly four ASCII digits.
func Year(v string) bool {
	return yearRe.MatchString(strings.TrimSpace(v))
}

// Number reports whether v parses as a finite decimal number.
func Number(v string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return false
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseDate parses a YYYY-MM-DD value in UTC.
func ParseDate(v string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Age reports whether someone born on dob is at least minYears old on now.
// The age is computed from calendar year, month and day, so a birthday that
// has not yet occurred this year does not count.
func Age(dob string, minYears int, now time.Time) bool {
	birth, ok := ParseDate(dob)
	if !ok {
		return false
	}
	return YearsBetween(birth, now) >= minYears
}

// YearsBetween returns the number of whole calendar years from start to end.
func YearsBetween(start, end time.Time) int {
	years := end.Year() - start.Year()
	if end.Month() < start.Month() || (end.Month() == start.Month() && end.Day() < start.Day()) {
		years--
	}
	return years
}
