package services

import (
	"time"

	"github.com/discoverly/discoverly/backend/internal/domain/entities"
	"github.com/discoverly/discoverly/backend/pkg/schedule"
)

// OpenStatusService evaluates whether a business is currently open from its
// weekly service hours, in the business's own timezone. It is evaluated
// fresh on every request and never errors: any malformed input degrades to
// closed, since a wrongly "open" listing misleads users more than a wrongly
// "closed" one.
type OpenStatusService struct {
	now func() time.Time
}

// NewOpenStatusService creates an evaluator using wall-clock time
func NewOpenStatusService() *OpenStatusService {
	return &OpenStatusService{now: time.Now}
}

// NewOpenStatusServiceAt creates an evaluator with an injected clock, for tests
func NewOpenStatusServiceAt(now func() time.Time) *OpenStatusService {
	return &OpenStatusService{now: now}
}

// IsOpen reports whether the schedule is open right now
func (s *OpenStatusService) IsOpen(hours *entities.WeeklyServiceHours) bool {
	return s.IsOpenAt(hours, s.now())
}

// IsOpenAt reports whether the schedule is open at the given instant
func (s *OpenStatusService) IsOpenAt(hours *entities.WeeklyServiceHours, at time.Time) bool {
	if hours == nil || len(hours.Days) == 0 {
		return false
	}

	local := at.In(resolveLocation(hours.Timezone))

	entry, ok := lookupDay(hours.Days, local.Weekday())
	if !ok || entry.IsClosed {
		return false
	}

	start, ok := schedule.ParseClock(entry.Start)
	if !ok {
		return false
	}
	end, ok := schedule.ParseClock(entry.End)
	if !ok {
		return false
	}

	now := local.Hour()*60 + local.Minute()

	if end >= start {
		return now >= start && now < end
	}
	// Overnight window: close time wraps past midnight
	return now >= start || now < end
}

// resolveLocation validates the stored IANA name, defaulting to UTC
func resolveLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// lookupDay finds the entry for a weekday under any of its historical keys
// (full name, abbreviation, any case)
func lookupDay(days map[string]entities.DayHours, weekday time.Weekday) (entities.DayHours, bool) {
	for _, key := range schedule.DayKeys(weekday) {
		if entry, ok := days[key]; ok {
			return entry, true
		}
	}
	// Slow path: keys stored in a non-canonical case or longer abbreviation
	for key, entry := range days {
		if d, ok := schedule.CanonicalDay(key); ok && d == weekday {
			return entry, true
		}
	}
	return entities.DayHours{}, false
}
