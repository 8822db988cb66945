package pipeline

import (
	"github.com/leeks92/flight-mustarddata/internal/domain/entity"
)

// Aggregator accumulates normalized flight entries into the two keyed route
// collections and the shared airport map. It is mutated only from the single
// collection goroutine; routes are never removed within a run and the whole
// state is rebuilt from scratch on every run.
//
// The departure collection answers "all routes departing airport X", the
// arrival collection "all routes arriving at airport X". A domestic leg is
// commonly registered in both at once.
type Aggregator struct {
	departures map[entity.RouteKey]*entity.Route
	arrivals   map[entity.RouteKey]*entity.Route
	airports   map[string]entity.Airport
}

// NewAggregator creates an empty aggregator with the hub airport pre-seeded.
func NewAggregator(hub entity.Airport) *Aggregator {
	a := &Aggregator{
		departures: make(map[entity.RouteKey]*entity.Route),
		arrivals:   make(map[entity.RouteKey]*entity.Route),
		airports:   make(map[string]entity.Airport),
	}
	a.RegisterAirport(hub)
	return a
}

// RegisterAirport records an airport identity. The first registration of a
// code wins; later spellings do not overwrite it.
func (a *Aggregator) RegisterAirport(airport entity.Airport) {
	if airport.Code == "" {
		return
	}
	if _, ok := a.airports[airport.Code]; !ok {
		a.airports[airport.Code] = airport
	}
}

// AddDeparture merges one entry into the departure-oriented collection.
// Reports whether the entry was newly stored (false means the dedup identity
// was already present and the stored entry stays untouched).
func (a *Aggregator) AddDeparture(dep, arr entity.Airport, entry entity.FlightEntry) bool {
	return a.add(a.departures, dep, arr, entry)
}

// AddArrival merges one entry into the arrival-oriented collection.
func (a *Aggregator) AddArrival(dep, arr entity.Airport, entry entity.FlightEntry) bool {
	return a.add(a.arrivals, dep, arr, entry)
}

// AddSymmetric registers one physical leg in both collections at once: the
// leg departs dep and arrives at arr, so it belongs to dep's departure view
// and arr's arrival view under the same ordered key. Reports whether the
// departure view stored a new entry.
func (a *Aggregator) AddSymmetric(dep, arr entity.Airport, entry entity.FlightEntry) bool {
	inserted := a.AddDeparture(dep, arr, entry)
	a.AddArrival(dep, arr, entry)
	return inserted
}

func (a *Aggregator) add(routes map[entity.RouteKey]*entity.Route, dep, arr entity.Airport, entry entity.FlightEntry) bool {
	a.RegisterAirport(dep)
	a.RegisterAirport(arr)

	key := entity.RouteKey{Dep: dep.Code, Arr: arr.Code}
	route, ok := routes[key]
	if !ok {
		route = &entity.Route{
			DepCode: dep.Code,
			DepName: dep.Name,
			ArrCode: arr.Code,
			ArrName: arr.Name,
		}
		routes[key] = route
	}
	return route.AddFlight(entry)
}

// DepartureRoutes returns the departure-oriented routes in unspecified
// order. The routes are shared, not copied; callers sort and serialize them
// after collection has finished.
func (a *Aggregator) DepartureRoutes() []*entity.Route {
	return collect(a.departures)
}

// ArrivalRoutes returns the arrival-oriented routes in unspecified order.
func (a *Aggregator) ArrivalRoutes() []*entity.Route {
	return collect(a.arrivals)
}

// Airports returns every registered airport identity, hub included.
func (a *Aggregator) Airports() []entity.Airport {
	out := make([]entity.Airport, 0, len(a.airports))
	for _, airport := range a.airports {
		out = append(out, airport)
	}
	return out
}

// Counts reports the sizes of the three collections.
func (a *Aggregator) Counts() (airports, departureRoutes, arrivalRoutes int) {
	return len(a.airports), len(a.departures), len(a.arrivals)
}

func collect(routes map[entity.RouteKey]*entity.Route) []*entity.Route {
	out := make([]*entity.Route, 0, len(routes))
	for _, r := range routes {
		out = append(out, r)
	}
	return out
}
