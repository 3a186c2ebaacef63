package entities

// WeeklyServiceHours is the weekly open/close schedule carried on a
// business's linked builder page. Day entries may be keyed by full weekday
// names or by abbreviations; both forms occur in stored data.
type WeeklyServiceHours struct {
	// Timezone is an IANA zone name. Absent or invalid values fall back to UTC.
	Timezone string              `json:"timezone,omitempty"`
	Days     map[string]DayHours `json:"days"`
}

// DayHours is a single day's window. A day with IsClosed set, or with a
// missing or malformed start/end time, counts as closed. An end before the
// start is an overnight window wrapping past midnight.
type DayHours struct {
	IsClosed bool   `json:"isClosed"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}
