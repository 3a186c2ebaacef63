package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/discoverly/discoverly/backend/internal/application/services"
	"github.com/discoverly/discoverly/backend/internal/domain/entities"
)

func hoursWith(tz string, days map[string]entities.DayHours) *entities.WeeklyServiceHours {
	return &entities.WeeklyServiceHours{Timezone: tz, Days: days}
}

// instant builds a UTC time on a fixed week: 2026-03-02 is a Monday.
func instant(weekday time.Weekday, hour, minute int) time.Time {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // Monday
	offset := (int(weekday) - int(time.Monday) + 7) % 7
	return base.AddDate(0, 0, offset).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func TestOpenStatus_RegularWindow(t *testing.T) {
	svc := services.NewOpenStatusService()
	h := hoursWith("UTC", map[string]entities.DayHours{
		"Monday": {Start: "09:00", End: "17:00"},
	})

	assert.True(t, svc.IsOpenAt(h, instant(time.Monday, 9, 0)), "open at start")
	assert.True(t, svc.IsOpenAt(h, instant(time.Monday, 12, 30)))
	assert.False(t, svc.IsOpenAt(h, instant(time.Monday, 17, 0)), "closed at end (half-open interval)")
	assert.False(t, svc.IsOpenAt(h, instant(time.Monday, 8, 59)))
	assert.False(t, svc.IsOpenAt(h, instant(time.Tuesday, 12, 0)), "no entry for Tuesday")
}

func TestOpenStatus_OvernightWindow(t *testing.T) {
	svc := services.NewOpenStatusService()
	h := hoursWith("UTC", map[string]entities.DayHours{
		"Friday": {Start: "22:00", End: "02:00"},
	})

	assert.True(t, svc.IsOpenAt(h, instant(time.Friday, 23, 30)))
	assert.True(t, svc.IsOpenAt(h, instant(time.Friday, 1, 0)))
	assert.False(t, svc.IsOpenAt(h, instant(time.Friday, 10, 0)))
}

func TestOpenStatus_DayKeyForms(t *testing.T) {
	svc := services.NewOpenStatusService()

	t.Run("abbreviated key", func(t *testing.T) {
		h := hoursWith("UTC", map[string]entities.DayHours{
			"Mon": {Start: "09:00", End: "17:00"},
		})
		assert.True(t, svc.IsOpenAt(h, instant(time.Monday, 10, 0)))
	})

	t.Run("lowercase long abbreviation", func(t *testing.T) {
		h := hoursWith("UTC", map[string]entities.DayHours{
			"thurs": {Start: "09:00", End: "17:00"},
		})
		assert.True(t, svc.IsOpenAt(h, instant(time.Thursday, 10, 0)))
	})
}

func TestOpenStatus_Timezone(t *testing.T) {
	svc := services.NewOpenStatusService()

	// 14:00 UTC is 09:00 in New York during winter
	h := hoursWith("America/New_York", map[string]entities.DayHours{
		"Monday": {Start: "09:00", End: "17:00"},
	})
	assert.True(t, svc.IsOpenAt(h, instant(time.Monday, 14, 30)))
	assert.False(t, svc.IsOpenAt(h, instant(time.Monday, 13, 0)), "08:00 local, not yet open")

	t.Run("invalid timezone falls back to UTC", func(t *testing.T) {
		h := hoursWith("Not/AZone", map[string]entities.DayHours{
			"Monday": {Start: "09:00", End: "17:00"},
		})
		assert.True(t, svc.IsOpenAt(h, instant(time.Monday, 9, 30)))
	})
}

func TestOpenStatus_DegradesToClosed(t *testing.T) {
	svc := services.NewOpenStatusService()
	at := instant(time.Monday, 12, 0)

	tests := []struct {
		name  string
		hours *entities.WeeklyServiceHours
	}{
		{"nil schedule", nil},
		{"empty days", hoursWith("UTC", map[string]entities.DayHours{})},
		{"isClosed flag wins over valid times", hoursWith("UTC", map[string]entities.DayHours{
			"Monday": {IsClosed: true, Start: "09:00", End: "17:00"},
		})},
		{"empty times", hoursWith("UTC", map[string]entities.DayHours{
			"Monday": {},
		})},
		{"malformed start", hoursWith("UTC", map[string]entities.DayHours{
			"Monday": {Start: "25:00", End: "17:00"},
		})},
		{"malformed end", hoursWith("UTC", map[string]entities.DayHours{
			"Monday": {Start: "09:00", End: "17:75"},
		})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, svc.IsOpenAt(tt.hours, at))
		})
	}
}

func TestOpenStatus_Deterministic(t *testing.T) {
	svc := services.NewOpenStatusService()
	h := hoursWith("UTC", map[string]entities.DayHours{
		"Monday": {Start: "09:00", End: "17:00"},
	})
	at := instant(time.Monday, 10, 0)

	first := svc.IsOpenAt(h, at)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.IsOpenAt(h, at))
	}
}
