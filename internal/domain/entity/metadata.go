package entity

import "time"

// Metadata is the snapshot summary artifact. It is computed once at the end
// of a run from the finalized collections and fully replaces the previous
// metadata file.
type Metadata struct {
	LastUpdated         time.Time `json:"lastUpdated"`
	Season              string    `json:"season"`
	AirportCount        int       `json:"airportCount"`
	DepartureRouteCount int       `json:"departureRouteCount"`
	ArrivalRouteCount   int       `json:"arrivalRouteCount"`
}
