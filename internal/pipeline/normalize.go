// Package pipeline turns raw source records into the canonical route and
// airport collections and orchestrates the sequential collection run across
// all configured sources.
package pipeline

import (
	"strings"
	"time"

	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
	"github.com/leeks92/flight-mustarddata/internal/infra/openapi"
	"github.com/leeks92/flight-mustarddata/internal/refdata"
)

// FormatTime reshapes a raw 3-or-4-digit "HHmm" value into "HH:mm".
// Values that cannot be a clock time come back empty; the caller drops the
// record silently.
func FormatTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) == 3 {
		raw = "0" + raw
	}
	if len(raw) != 4 {
		return ""
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return raw[:2] + ":" + raw[2:]
}

// FormatDate reshapes a raw 8-digit "YYYYMMDD" value into "YYYY-MM-DD".
// Anything shorter or malformed yields an empty string, never an error; an
// absent date is normal for sources that do not carry validity windows.
func FormatDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) != 8 {
		return ""
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return ""
		}
	}
	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:]
}

// weekdayFlag maps a source weekday column to a boolean. Only the exact
// string "Y" asserts operation; "y", "N", empty and anything else is false.
func weekdayFlag(raw string) bool {
	return raw == "Y"
}

// FlightPrefix extracts the carrier prefix of a flight number: the part
// before a literal '/' when present, otherwise the leading non-digit run.
func FlightPrefix(flightID string) string {
	if idx := strings.IndexByte(flightID, '/'); idx >= 0 {
		return flightID[:idx]
	}
	for i, c := range flightID {
		if c >= '0' && c <= '9' {
			return flightID[:i]
		}
	}
	return flightID
}

// Normalizer converts raw source items into canonical flight entries, using
// the resolver's carrier table for airline-name backfill.
type Normalizer struct {
	resolver *refdata.Resolver
}

// NewNormalizer creates a Normalizer backed by the given resolver.
func NewNormalizer(resolver *refdata.Resolver) *Normalizer {
	return &Normalizer{resolver: resolver}
}

// airlineName backfills a missing airline name from the flight-number
// prefix. Unknown prefixes fall back to the raw prefix itself; an unknown
// carrier never blocks a record.
func (n *Normalizer) airlineName(explicit, flightID string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	prefix := FlightPrefix(flightID)
	if name, ok := n.resolver.CarrierName(prefix); ok {
		return name
	}
	return prefix
}

// FromIncheon converts one hub schedule record. Returns nil when the record
// has no usable schedule time.
func (n *Normalizer) FromIncheon(item openapi.IncheonItem) *entity.FlightEntry {
	scheduleTime := FormatTime(item.St)
	if scheduleTime == "" {
		return nil
	}
	return &entity.FlightEntry{
		Airline:      n.airlineName(item.Airline, item.FlightID),
		FlightID:     strings.TrimSpace(item.FlightID),
		ScheduleTime: scheduleTime,
		Days: entity.DaysOfWeek{
			Mon: weekdayFlag(item.Monday),
			Tue: weekdayFlag(item.Tuesday),
			Wed: weekdayFlag(item.Wednesday),
			Thu: weekdayFlag(item.Thursday),
			Fri: weekdayFlag(item.Friday),
			Sat: weekdayFlag(item.Saturday),
			Sun: weekdayFlag(item.Sunday),
		},
		FirstDate: FormatDate(item.FirstDate),
		LastDate:  FormatDate(item.LastDate),
		Season:    strings.TrimSpace(item.Season),
	}
}

// FromRegional converts one regional weekly-schedule record. Returns nil
// when the record has no usable departure time.
func (n *Normalizer) FromRegional(item openapi.RegionalItem) *entity.FlightEntry {
	scheduleTime := FormatTime(item.DepTime)
	if scheduleTime == "" {
		return nil
	}
	return &entity.FlightEntry{
		Airline:      n.airlineName(item.AirlineNm, item.DomFlightNo),
		FlightID:     strings.TrimSpace(item.DomFlightNo),
		ScheduleTime: scheduleTime,
		Days: entity.DaysOfWeek{
			Mon: weekdayFlag(item.Monday),
			Tue: weekdayFlag(item.Tuesday),
			Wed: weekdayFlag(item.Wednesday),
			Thu: weekdayFlag(item.Thursday),
			Fri: weekdayFlag(item.Friday),
			Sat: weekdayFlag(item.Saturday),
			Sun: weekdayFlag(item.Sunday),
		},
		FirstDate: FormatDate(item.StartDt),
		LastDate:  FormatDate(item.EndDt),
		Season:    strings.TrimSpace(item.Season),
	}
}

// FromProbe converts one domestic operations record observed on the given
// weekday. The operations API reports concrete departures, so the entry's
// day evidence is exactly the probed day; the caller merges evidence across
// the probe window before aggregation. Returns nil when the planned
// departure time is unusable.
func (n *Normalizer) FromProbe(item openapi.ProbeItem, day time.Weekday) *entity.FlightEntry {
	// depPlandTime is YYYYMMDDHHmm; the clock part is the schedule time.
	raw := strings.TrimSpace(item.DepPlandTime)
	if len(raw) != 12 {
		return nil
	}
	scheduleTime := FormatTime(raw[8:])
	if scheduleTime == "" {
		return nil
	}
	return &entity.FlightEntry{
		Airline:      n.airlineName(item.AirlineNm, item.VihicleID),
		FlightID:     strings.TrimSpace(item.VihicleID),
		ScheduleTime: scheduleTime,
		Days:         dayFlag(day),
	}
}

// dayFlag returns weekday evidence asserting exactly one day.
func dayFlag(day time.Weekday) entity.DaysOfWeek {
	var d entity.DaysOfWeek
	switch day {
	case time.Monday:
		d.Mon = true
	case time.Tuesday:
		d.Tue = true
	case time.Wednesday:
		d.Wed = true
	case time.Thursday:
		d.Thu = true
	case time.Friday:
		d.Fri = true
	case time.Saturday:
		d.Sat = true
	case time.Sunday:
		d.Sun = true
	}
	return d
}

// MergeDayEvidence collapses repeated observations of the same flight across
// a multi-day probe window into one entry per dedup identity, with the union
// of all observed weekday evidence. The aggregator stores first-seen entries
// untouched, so this merge must happen before insertion. Encounter order of
// distinct flights is preserved.
func MergeDayEvidence(entries []entity.FlightEntry) []entity.FlightEntry {
	merged := make([]entity.FlightEntry, 0, len(entries))
	index := make(map[string]int, len(entries))

	for _, e := range entries {
		key := e.DedupKey()
		if at, ok := index[key]; ok {
			merged[at].Days = merged[at].Days.Merge(e.Days)
			continue
		}
		index[key] = len(merged)
		merged = append(merged, e)
	}
	return merged
}
