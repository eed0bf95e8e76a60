package session

import (
	"fmt"

	"resume-builder/internal/validate"
)

// MsgDateOrder is reported when the last working date is not after the join date.
const MsgDateOrder = "Last working date must be after join date."

// Duration derives the experience text for a pair of YYYY-MM-DD dates. It
// returns ("", "") while either date is missing or unparseable and
// ("", MsgDateOrder) when end <= start; a negative duration is never produced.
//
// Months are counted as whole calendar months with a day-of-month borrow:
// 2020-01-31 to 2020-02-29 is 0 months.
func Duration(start, end string) (duration, orderErr string) {
	s, ok := validate.ParseDate(start)
	if !ok {
		return "", ""
	}
	e, ok := validate.ParseDate(end)
	if !ok {
		return "", ""
	}
	if !e.After(s) {
		return "", MsgDateOrder
	}

	months := (e.Year()-s.Year())*12 + int(e.Month()-s.Month())
	if e.Day() < s.Day() {
		months--
	}
	years, rem := months/12, months%12
	return fmt.Sprintf("%d %s %d %s", years, plural(years, "year"), rem, plural(rem, "month")), ""
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
