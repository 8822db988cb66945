package pipeline

import (
	"sort"
	"time"
)

// Today renders a wall-clock time as the fixed-width YYYYMMDD form the
// validity comparison works on.
func Today(now time.Time) string {
	return now.Format("20060102")
}

// ValidOn reports whether a record with the given raw lastdate is still
// valid on the given YYYYMMDD day. An absent lastdate means an open-ended
// validity window. The comparison is plain string ordering, which is correct
// because both sides are fixed-width and zero-padded; a record expiring
// today is still valid.
func ValidOn(rawLastDate, today string) bool {
	if rawLastDate == "" {
		return true
	}
	return rawLastDate >= today
}

// SeasonSelector picks one representative season label out of all labels
// observed among valid records. Labels sort meaningfully as plain strings
// (season letter followed by two-digit year), so the lexicographic maximum
// is the most recent label; the selector does not try to derive seasons from
// calendar logic.
type SeasonSelector struct {
	seen map[string]struct{}
}

// NewSeasonSelector creates an empty selector.
func NewSeasonSelector() *SeasonSelector {
	return &SeasonSelector{seen: make(map[string]struct{})}
}

// Observe records one season label. Empty labels are ignored.
func (s *SeasonSelector) Observe(season string) {
	if season == "" {
		return
	}
	s.seen[season] = struct{}{}
}

// Selected returns the lexicographic maximum of all observed labels, or
// empty when nothing was observed.
func (s *SeasonSelector) Selected() string {
	if len(s.seen) == 0 {
		return ""
	}
	labels := make([]string, 0, len(s.seen))
	for label := range s.seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels[len(labels)-1]
}
