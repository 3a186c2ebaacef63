// Package schedule normalizes the two historical representations of weekly
// service hours at the boundary: day entries keyed by either full weekday
// names or short abbreviations, and loosely formatted "H:MM" clock strings.
// Everything downstream works with time.Weekday and minutes since midnight.
package schedule

import (
	"strconv"
	"strings"
	"time"
)

var dayAliases = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"tues":      time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"thur":      time.Thursday,
	"thurs":     time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
}

// CanonicalDay maps a full weekday name or a historical abbreviation to its
// canonical weekday. Matching is case-insensitive.
func CanonicalDay(s string) (time.Weekday, bool) {
	d, ok := dayAliases[strings.ToLower(strings.TrimSpace(s))]
	return d, ok
}

// DayKeys returns the lookup keys a weekday may be stored under, most
// specific first: full name, then three-letter abbreviation.
func DayKeys(d time.Weekday) []string {
	name := d.String()
	return []string{name, name[:3]}
}

// ParseClock parses a "HH:MM" (or "H:M") time-of-day string into minutes
// since midnight. Hours above 23 or minutes above 59 are rejected.
func ParseClock(s string) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// NormalizeClock rewrites a loosely formatted clock string into canonical
// "HH:MM" form. Returns false for malformed input.
func NormalizeClock(s string) (string, bool) {
	minutes, ok := ParseClock(s)
	if !ok {
		return "", false
	}
	return FormatClock(minutes), true
}

// FormatClock renders minutes since midnight as "HH:MM"
func FormatClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
