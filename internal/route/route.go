// Package route owns the geographic side of the game: airport lookup,
// great-circle distances, layover route construction and CO2 costing.
package route

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Airport is one large airport usable as a flight endpoint or stop.
type Airport struct {
	Ident   string  `json:"ident"`
	Name    string  `json:"name"`
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

const (
	earthRadiusKM = 6371.0

	// CO2 kilograms emitted per flown kilometer.
	co2PerKM = 0.15

	// Stage budget headroom over the optimal route's CO2.
	budgetMargin = 1.2

	// A candidate layover airport may not lengthen the direct route by
	// more than this.
	maxDetourKM = 1000

	// Brute-force permutation search limits; beyond these the planner
	// falls back to greedy insertion.
	maxBruteStops      = 3
	maxBruteCandidates = 15
	maxGreedyCandidates = 20
)

var (
	ErrUnknownAirport = errors.New("unknown airport")
	ErrNoRoute        = errors.New("no viable layover route")
)

// Distance returns the great-circle distance between two airports in
// kilometers.
func Distance(a, b Airport) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}

// RouteDistance sums the leg distances of a route.
func RouteDistance(route []Airport) float64 {
	var total float64
	for i := 0; i < len(route)-1; i++ {
		total += Distance(route[i], route[i+1])
	}
	return total
}

// CO2 converts a flown distance into emitted kilograms.
func CO2(distanceKM float64) float64 { return distanceKM * co2PerKM }

// Route is a computed flight path with its cost.
type Route struct {
	Airports   []Airport
	DistanceKM float64
	CO2Needed  float64
}

// Idents returns the route's airport codes in order.
func (r Route) Idents() []string {
	out := make([]string, len(r.Airports))
	for i, a := range r.Airports {
		out[i] = a.Ident
	}
	return out
}

// Planner answers airport and route queries over a fixed airport set.
type Planner struct {
	airports  []Airport
	byIdent   map[string]Airport
	byCountry map[string][]Airport
}

// NewPlanner indexes the given airports.
func NewPlanner(airports []Airport) *Planner {
	p := &Planner{
		airports:  airports,
		byIdent:   make(map[string]Airport, len(airports)),
		byCountry: make(map[string][]Airport),
	}
	for _, a := range airports {
		p.byIdent[strings.ToUpper(a.Ident)] = a
		iso := strings.ToUpper(a.Country)
		p.byCountry[iso] = append(p.byCountry[iso], a)
	}
	return p
}

// Airports returns every indexed airport.
func (p *Planner) Airports() []Airport { return p.airports }

// Find looks an airport up by its ICAO ident, case-insensitively.
func (p *Planner) Find(ident string) (Airport, bool) {
	a, ok := p.byIdent[strings.ToUpper(ident)]
	return a, ok
}

// ByCountry returns all airports in an ISO country.
func (p *Planner) ByCountry(iso string) []Airport {
	return p.byCountry[strings.ToUpper(iso)]
}

// LayoverRoute plans a flight from origin to dest with the requested
// number of intermediate stops and prices it.
func (p *Planner) LayoverRoute(originIdent, destIdent string, stops int) (Route, error) {
	origin, ok := p.Find(originIdent)
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownAirport, originIdent)
	}
	dest, ok := p.Find(destIdent)
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrUnknownAirport, destIdent)
	}

	path, err := p.routeWithStops(origin, dest, stops)
	if err != nil {
		return Route{}, err
	}

	dist := RouteDistance(path)
	return Route{Airports: path, DistanceKM: dist, CO2Needed: CO2(dist)}, nil
}

// routeWithStops builds the cheapest route through the requested stop
// count. Candidates are airports whose detour over the direct line
// stays under maxDetourKM; small searches are exhaustive, larger ones
// greedy.
func (p *Planner) routeWithStops(origin, dest Airport, stops int) ([]Airport, error) {
	if stops <= 0 {
		return []Airport{origin, dest}, nil
	}

	directDist := Distance(origin, dest)

	var candidates []Airport
	for _, a := range p.airports {
		if a.Ident == origin.Ident || a.Ident == dest.Ident {
			continue
		}
		viaDist := Distance(origin, a) + Distance(a, dest)
		if viaDist-directDist <= maxDetourKM {
			candidates = append(candidates, a)
		}
	}

	if len(candidates) < stops {
		return nil, fmt.Errorf("%w: %d stops requested, %d candidates", ErrNoRoute, stops, len(candidates))
	}

	if stops <= maxBruteStops && len(candidates) <= maxBruteCandidates {
		return bestComboRoute(origin, dest, candidates, stops), nil
	}
	return greedyRoute(origin, dest, candidates, stops), nil
}

// bestComboRoute tries every combination and order of stops.
func bestComboRoute(origin, dest Airport, candidates []Airport, stops int) []Airport {
	var best []Airport
	bestDist := math.Inf(1)

	forEachCombination(len(candidates), stops, func(idx []int) {
		combo := make([]Airport, stops)
		for i, c := range idx {
			combo[i] = candidates[c]
		}
		forEachPermutation(combo, func(perm []Airport) {
			path := make([]Airport, 0, stops+2)
			path = append(path, origin)
			path = append(path, perm...)
			path = append(path, dest)
			if d := RouteDistance(path); d < bestDist {
				bestDist = d
				best = append([]Airport(nil), path...)
			}
		})
	})
	return best
}

// greedyRoute inserts one stop at a time, always picking the candidate
// that keeps the running route shortest.
func greedyRoute(origin, dest Airport, candidates []Airport, stops int) []Airport {
	remaining := candidates
	if len(remaining) > maxGreedyCandidates {
		remaining = remaining[:maxGreedyCandidates]
	}
	remaining = append([]Airport(nil), remaining...)

	var selected []Airport
	for len(selected) < stops && len(remaining) > 0 {
		bestIdx := -1
		bestDist := math.Inf(1)
		for i, cand := range remaining {
			path := make([]Airport, 0, len(selected)+3)
			path = append(path, origin)
			path = append(path, selected...)
			path = append(path, cand, dest)
			if d := RouteDistance(path); d < bestDist {
				bestDist = d
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	path := make([]Airport, 0, len(selected)+2)
	path = append(path, origin)
	path = append(path, selected...)
	path = append(path, dest)
	return path
}

// forEachCombination visits every k-subset of [0,n) in index order.
func forEachCombination(n, k int, fn func(idx []int)) {
	idx := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			fn(idx)
			return
		}
		for i := start; i < n; i++ {
			idx[depth] = i
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}

// forEachPermutation visits every ordering of items (Heap's algorithm).
func forEachPermutation(items []Airport, fn func([]Airport)) {
	var generate func(k int)
	generate = func(k int) {
		if k == 1 {
			fn(items)
			return
		}
		for i := 0; i < k; i++ {
			generate(k - 1)
			if k%2 == 0 {
				items[i], items[k-1] = items[k-1], items[i]
			} else {
				items[0], items[k-1] = items[k-1], items[0]
			}
		}
	}
	if len(items) > 0 {
		generate(len(items))
	}
}
