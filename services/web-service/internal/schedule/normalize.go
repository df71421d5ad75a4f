package schedule

import (
	"strings"
	"time"

	"github.com/barberpro/barberweb/services/web-service/internal/format"
	"github.com/barberpro/barberweb/services/web-service/internal/model"
)

// Display is the pt-BR rendering of an appointment time: "24/09/2025", "14:30".
type Display struct {
	Date string
	Time string
}

var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
}

var localLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalize turns whichever date fields a record carries into display
// strings. It never fails: a record without date fields renders as two
// empty strings, and an unparseable timestamp degrades to the raw date and
// time fields formatted on their own.
func Normalize(raw model.RawTimes, loc *time.Location) Display {
	if raw.Empty() {
		return Display{}
	}

	// Separate date and time are rearranged as text, never shifted by a zone.
	if raw.Combined == "" && raw.ISO == "" && raw.DateOnly != "" && raw.TimeOnly != "" {
		return Display{Date: FormatDateOnly(raw.DateOnly, loc), Time: FormatTimeOnly(raw.TimeOnly)}
	}

	t, ok := ParseTimestamp(candidate(raw), loc)
	if !ok {
		d := Display{}
		if raw.DateOnly != "" {
			d.Date = FormatDateOnly(raw.DateOnly, loc)
		}
		if raw.TimeOnly != "" {
			d.Time = FormatTimeOnly(raw.TimeOnly)
		}
		return d
	}
	t = t.In(location(loc))
	return Display{Date: format.Date(t), Time: format.Clock(t)}
}

// Resolve returns the resolved timestamp of a record, used for ordering.
func Resolve(raw model.RawTimes, loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(candidate(raw), loc)
}

// candidate picks the combined timestamp, then the ISO one, then date+time.
func candidate(raw model.RawTimes) string {
	switch {
	case raw.Combined != "":
		return raw.Combined
	case raw.ISO != "":
		return raw.ISO
	case raw.DateOnly != "" && raw.TimeOnly != "":
		return raw.DateOnly + " " + raw.TimeOnly
	default:
		return ""
	}
}

// ParseTimestamp accepts RFC 3339 with or without fractional seconds, the
// same without a zone (read in loc), a space instead of the "T", and a bare
// YYYY-MM-DD (midnight in loc).
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.Contains(s, " ") && !strings.Contains(s, "T") {
		s = strings.Replace(s, " ", "T", 1)
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, location(loc)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDateOnly rearranges "2025-09-24" into "24/09/2025". Other inputs are
// read as a timestamp; what cannot be read is returned unchanged.
func FormatDateOnly(d string, loc *time.Location) string {
	d = strings.TrimSpace(d)
	if isISODate(d) {
		return d[8:10] + "/" + d[5:7] + "/" + d[0:4]
	}
	if t, ok := ParseTimestamp(d, loc); ok {
		return format.Date(t.In(location(loc)))
	}
	return d
}

// FormatTimeOnly truncates "14:30:00" to "14:30".
func FormatTimeOnly(t string) string {
	t = strings.TrimSpace(t)
	parts := strings.Split(t, ":")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return t
	}
	return parts[0] + ":" + parts[1]
}

func isISODate(s string) bool {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if i == 4 || i == 7 {
			continue
		}
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
