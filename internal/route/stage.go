package route

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/ecotrip/flightgame/internal/game"
)

// CountryClue is one entry of the clue table: a guessable country and
// the hint shown for it.
type CountryClue struct {
	ISO  string `json:"iso_country"`
	Name string `json:"name"`
	Clue string `json:"clue"`
}

// StageBuilder generates fresh stages: random target countries, one
// representative airport each, the optimal visiting order and a CO2
// budget derived from it.
type StageBuilder struct {
	planner *Planner
	clues   []CountryClue
	rng     *rand.Rand
}

// NewStageBuilder wires a builder over the planner's airports and the
// clue table. The rng is injected so tests can be deterministic.
func NewStageBuilder(p *Planner, clues []CountryClue, rng *rand.Rand) *StageBuilder {
	return &StageBuilder{planner: p, clues: clues, rng: rng}
}

// Build generates stage `number` starting from originIdent with n
// target countries. The guess order is the distance-optimal visiting
// order and the budget is the optimal route's CO2 plus margin.
func (b *StageBuilder) Build(number int, originIdent string, n int) (game.Stage, error) {
	origin, ok := b.planner.Find(originIdent)
	if !ok {
		return game.Stage{}, fmt.Errorf("%w: %s", ErrUnknownAirport, originIdent)
	}

	// Countries with at least one airport, excluding where we already are.
	var eligible []CountryClue
	for _, c := range b.clues {
		if strings.EqualFold(c.ISO, origin.Country) {
			continue
		}
		if len(b.planner.ByCountry(c.ISO)) > 0 {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) < n {
		return game.Stage{}, fmt.Errorf("only %d guessable countries available, need %d", len(eligible), n)
	}

	b.rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	picked := eligible[:n]

	places := make(map[string]game.Place, n)
	dests := make([]Airport, 0, n)
	for _, c := range picked {
		airports := b.planner.ByCountry(c.ISO)
		a := airports[b.rng.Intn(len(airports))]
		places[strings.ToUpper(c.ISO)] = game.Place{Name: c.Name, Clue: c.Clue, ICAO: a.Ident}
		dests = append(dests, a)
	}

	order, optimalDist := bestVisitingOrder(origin, dests)

	orderCountries := make([]string, len(order))
	for i, a := range order {
		orderCountries[i] = strings.ToUpper(a.Country)
	}

	return game.Stage{
		Number:         number,
		OrderCountries: orderCountries,
		Places:         places,
		Origin:         origin.Ident,
		CO2Budget:      CO2(optimalDist) * budgetMargin,
	}, nil
}

// bestVisitingOrder tries every permutation of the destinations and
// returns the shortest tour from the origin with its distance.
func bestVisitingOrder(origin Airport, dests []Airport) ([]Airport, float64) {
	best := append([]Airport(nil), dests...)
	bestDist := math.Inf(1)

	work := append([]Airport(nil), dests...)
	forEachPermutation(work, func(perm []Airport) {
		path := make([]Airport, 0, len(perm)+1)
		path = append(path, origin)
		path = append(path, perm...)
		if d := RouteDistance(path); d < bestDist {
			bestDist = d
			best = append(best[:0], perm...)
		}
	})
	return best, bestDist
}
