// Package entity defines the domain model of the flight-schedule pipeline:
// airports, flight entries, routes and the snapshot metadata emitted for the
// site. All entities are transient, in-memory values recomputed on every run;
// the JSON artifacts written by the snapshot writer are the only durable state.
package entity

// HubCode is the IATA code of the hub airport. It is pre-seeded into the
// airport map on every run, before any source is consulted.
const HubCode = "ICN"

// HubName is the canonical Korean display name of the hub airport.
const HubName = "인천"

// Airport is one entry of the emitted airport list.
// Code is unique within the emitted collection and never mutated after
// creation within a run.
type Airport struct {
	Code string `json:"airportCode"`
	Name string `json:"airportName"`
}
