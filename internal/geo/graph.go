package geo

import (
	"encoding/json"
	"fmt"
	"os"

	"shipment-consolidation-service/internal/domain"
)

// Tables is the on-disk shape of the geo asset: edge weights keyed by origin
// then destination location name. Values are looked up directionally as
// stored; symmetry is not assumed.
type Tables struct {
	DistancesKm map[string]map[string]float64 `json:"distances_km"`
	TravelHours map[string]map[string]float64 `json:"travel_hours"`
}

// Graph answers distance and travel-time queries between named locations.
// It is loaded once at process start and never mutated.
type Graph struct {
	distances map[string]map[string]float64
	travel    map[string]map[string]float64
}

// New builds a Graph from loaded tables.
func New(t Tables) *Graph {
	return &Graph{distances: t.DistancesKm, travel: t.TravelHours}
}

// Load reads the geo asset from a JSON file.
func Load(path string) (*Graph, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load geo tables: read %q: %w", path, err)
	}

	var t Tables
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("load geo tables: parse %q: %w", path, err)
	}
	if len(t.DistancesKm) == 0 || len(t.TravelHours) == 0 {
		return nil, fmt.Errorf("load geo tables: %q must define distances_km and travel_hours", path)
	}

	return New(t), nil
}

// Distance returns the stored distance in km from a to b.
func (g *Graph) Distance(a, b string) (float64, bool) {
	row, ok := g.distances[a]
	if !ok {
		return 0, false
	}
	d, ok := row[b]
	return d, ok
}

// Travel returns the stored travel time in hours from a to b.
func (g *Graph) Travel(a, b string) (float64, bool) {
	row, ok := g.travel[a]
	if !ok {
		return 0, false
	}
	t, ok := row[b]
	return t, ok
}

// RouteDistance sums consecutive distances along source -> stops[0] -> ... ->
// stops[n-1]. A missing leg fails with ErrUnknownRoute instead of counting as
// zero, so data gaps cannot silently shrink a route.
func (g *Graph) RouteDistance(source string, stops []string) (float64, error) {
	total := 0.0
	prev := source
	for _, stop := range stops {
		d, ok := g.Distance(prev, stop)
		if !ok {
			return 0, fmt.Errorf("route distance %q -> %q: %w", prev, stop, domain.ErrUnknownRoute)
		}
		total += d
		prev = stop
	}
	return total, nil
}

// LegTravel returns the travel time for one leg, failing with ErrUnknownRoute
// when the edge is absent.
func (g *Graph) LegTravel(from, to string) (float64, error) {
	t, ok := g.Travel(from, to)
	if !ok {
		return 0, fmt.Errorf("travel %q -> %q: %w", from, to, domain.ErrUnknownRoute)
	}
	return t, nil
}
