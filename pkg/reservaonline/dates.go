package reservaonline

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// FormatDate renders t as YYYY-MM-DD using the calendar fields of t's own
// location. No UTC conversion is applied.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as a local calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}
