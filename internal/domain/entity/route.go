package entity

// RouteKey identifies a route as an ordered airport-code pair.
// Direction matters: A→B and B→A are distinct keys.
type RouteKey struct {
	Dep string
	Arr string
}

// String renders the key in the "DEP-ARR" form used in logs.
func (k RouteKey) String() string {
	return k.Dep + "-" + k.Arr
}

// Route groups all scheduled flights of one directed airport pair.
// Flights are kept in insertion order during a run; the snapshot writer is
// responsible for the final ascending sort by schedule time.
type Route struct {
	DepCode string        `json:"depAirportCode"`
	DepName string        `json:"depAirportName"`
	ArrCode string        `json:"arrAirportCode"`
	ArrName string        `json:"arrAirportName"`
	Flights []FlightEntry `json:"flights"`
}

// Key returns the ordered-pair key of the route.
func (r *Route) Key() RouteKey {
	return RouteKey{Dep: r.DepCode, Arr: r.ArrCode}
}

// FindFlight returns the stored entry matching the (flightId, scheduleTime)
// dedup identity, or nil when no such entry exists.
func (r *Route) FindFlight(flightID, scheduleTime string) *FlightEntry {
	for i := range r.Flights {
		if r.Flights[i].FlightID == flightID && r.Flights[i].ScheduleTime == scheduleTime {
			return &r.Flights[i]
		}
	}
	return nil
}

// AddFlight appends the entry unless an entry with the same dedup identity is
// already stored. The first stored entry wins; later duplicate observations
// do not modify it. Reports whether the entry was appended.
func (r *Route) AddFlight(f FlightEntry) bool {
	if r.FindFlight(f.FlightID, f.ScheduleTime) != nil {
		return false
	}
	r.Flights = append(r.Flights, f)
	return true
}
