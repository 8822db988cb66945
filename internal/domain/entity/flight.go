package entity

// DaysOfWeek records on which weekdays a scheduled flight operates.
// A flag is true only when the source asserted it; absent evidence is false,
// never "unknown".
type DaysOfWeek struct {
	Mon bool `json:"mon"`
	Tue bool `json:"tue"`
	Wed bool `json:"wed"`
	Thu bool `json:"thu"`
	Fri bool `json:"fri"`
	Sat bool `json:"sat"`
	Sun bool `json:"sun"`
}

// Merge returns the union of two sets of weekday evidence.
func (d DaysOfWeek) Merge(other DaysOfWeek) DaysOfWeek {
	return DaysOfWeek{
		Mon: d.Mon || other.Mon,
		Tue: d.Tue || other.Tue,
		Wed: d.Wed || other.Wed,
		Thu: d.Thu || other.Thu,
		Fri: d.Fri || other.Fri,
		Sat: d.Sat || other.Sat,
		Sun: d.Sun || other.Sun,
	}
}

// Any reports whether at least one weekday flag is set.
func (d DaysOfWeek) Any() bool {
	return d.Mon || d.Tue || d.Wed || d.Thu || d.Fri || d.Sat || d.Sun
}

// FlightEntry is one normalized scheduled flight within a route.
//
// ScheduleTime is always "HH:mm" and FirstDate/LastDate are "YYYY-MM-DD" or
// empty. Within one Route no two entries share both FlightID and
// ScheduleTime; that pair is the dedup key.
type FlightEntry struct {
	Airline      string     `json:"airline"`
	FlightID     string     `json:"flightId"`
	ScheduleTime string     `json:"scheduleTime"`
	Days         DaysOfWeek `json:"days"`
	FirstDate    string     `json:"firstDate"`
	LastDate     string     `json:"lastDate"`
	Season       string     `json:"season"`
}

// DedupKey returns the identity under which the aggregator deduplicates
// entries within a route.
func (f FlightEntry) DedupKey() string {
	return f.FlightID + "@" + f.ScheduleTime
}

// Validate checks the invariants a normalized entry must hold before it may
// enter the aggregator.
func (f *FlightEntry) Validate() error {
	if f.FlightID == "" {
		return &ValidationError{Field: "flightId", Message: "must not be empty"}
	}
	if len(f.ScheduleTime) != 5 || f.ScheduleTime[2] != ':' {
		return &ValidationError{Field: "scheduleTime", Message: "must be formatted as HH:mm"}
	}
	return nil
}
