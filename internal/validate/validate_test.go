package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	assert.True(t, Required("x"))
	assert.False(t, Required(""))
	assert.False(t, Required("   \t"))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("asha@x.com"))
	assert.True(t, Email("  a.b+c@sub.example.org "))
	assert.False(t, Email("asha@x"))
	assert.False(t, Email("asha x@y.com"))
	assert.False(t, Email("@x.com"))
	assert.False(t, Email(""))
}

func TestPhone(t *testing.T) {
	for _, v := range []string{"9876543210", "98765 43210", "98765-43210", "9-8-7-6-5-4-3-2-1-0", "0000000000"} {
		assert.True(t, Phone(v), v)
	}
	for _, v := range []string{"987654321", "98765432101", "98765  43210", "98765-4321a", "", "-9876543210"} {
		assert.False(t, Phone(v), v)
	}
}

func TestURL(t *testing.T) {
	for _, v := range []string{
		"linkedin.com/in/asha",
		"https://github.com/asha",
		"http://www.example.co.in",
		"example.dev/path?x=1#frag",
	} {
		assert.True(t, URL(v), v)
	}
	for _, v := range []string{"notaurl", "ftp://example.com", "https://", "exa mple.com", ""} {
		assert.False(t, URL(v), v)
	}
}

func TestYear(t *testing.T) {
	assert.True(t, Year("2023"))
	assert.True(t, Year(" 2023 "))
	assert.False(t, Year("23"))
	assert.False(t, Year("2023a"))
	assert.False(t, Year("20234"))
	assert.False(t, Year("２０２３"))
}

func TestNumber(t *testing.T) {
	assert.True(t, Number("8.5"))
	assert.True(t, Number("92"))
	assert.False(t, Number("abc"))
	assert.False(t, Number("NaN"))
	assert.False(t, Number("Inf"))
	assert.False(t, Number(""))
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("2020-01-31")
	assert.True(t, ok)
	assert.Equal(t, time.January, d.Month())

	_, ok = ParseDate("2020-02-30")
	assert.False(t, ok)
	_, ok = ParseDate("31/01/2020")
	assert.False(t, ok)
}

func TestAge_Boundary(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	assert.True(t, Age("2008-10-19", 18, now), "eighteenth birthday today")
	assert.False(t, Age("2008-10-20", 18, now), "one day short")
	assert.True(t, Age("2008-09-30", 18, now))
	assert.False(t, Age("2008-11-01", 18, now))
	assert.False(t, Age("not-a-date", 18, now))
	assert.False(t, Age("", 18, now))
}

func TestYearsBetween_LeapDay(t *testing.T) {
	born := time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 21, YearsBetween(born, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 22, YearsBetween(born, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
}
