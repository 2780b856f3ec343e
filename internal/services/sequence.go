package services

import (
	"fmt"
	"math"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/geo"
)

// SequenceRoute finalizes the visiting order of a draft's destinations from
// operator-supplied ranks.
//
// The rank assignment is complete iff it maps every destination to a distinct
// rank and the ranks are exactly 1..N; any duplicate, gap or out-of-range rank
// refuses finalization. On success the draft gains the ordered route and its
// total distance, and any previously calculated ETA is discarded so it must
// be recomputed before the shipment can be created.
func SequenceRoute(g *geo.Graph, draft *domain.ShipmentDraft, ranks map[string]int) error {
	n := len(draft.Destinations)
	if n == 0 {
		return fmt.Errorf("sequence route: draft has no destinations: %w", domain.ErrIncompleteRoute)
	}
	if len(ranks) != n {
		return fmt.Errorf("sequence route: %d rank(s) for %d destination(s): %w", len(ranks), n, domain.ErrIncompleteRoute)
	}

	route := make([]string, n)
	for _, dest := range draft.Destinations {
		rank, ok := ranks[dest]
		if !ok {
			return fmt.Errorf("sequence route: destination %q has no rank: %w", dest, domain.ErrIncompleteRoute)
		}
		if rank < 1 || rank > n {
			return fmt.Errorf("sequence route: rank %d out of range 1..%d: %w", rank, n, domain.ErrIncompleteRoute)
		}
		if route[rank-1] != "" {
			return fmt.Errorf("sequence route: duplicate rank %d: %w", rank, domain.ErrIncompleteRoute)
		}
		route[rank-1] = dest
	}

	total, err := g.RouteDistance(draft.Source, route)
	if err != nil {
		return fmt.Errorf("sequence route: %w", err)
	}

	limits, err := domain.LimitsFor(draft.DeliveryClass)
	if err != nil {
		return fmt.Errorf("sequence route: %w", err)
	}
	if total > limits.MaxDistanceKm {
		return &domain.CapacityExceededError{Dimension: "distance", Limit: limits.MaxDistanceKm, Actual: total}
	}

	draft.Route = route
	draft.TotalDistanceKm = total
	draft.ArrivalTimes = nil
	draft.TotalTimeHours = 0
	draft.Phase = domain.PhaseRouteCalculated
	return nil
}

// AutoRoute orders the draft's destinations with a greedy nearest-neighbor
// walk over travel times, for the one-click creation path.
//
// The walk minimizes the immediate travel leg at each step; it does not
// attempt global optimization. Ties break on destination name so the result
// is deterministic.
func AutoRoute(g *geo.Graph, draft *domain.ShipmentDraft) error {
	remaining := make(map[string]struct{}, len(draft.Destinations))
	for _, d := range draft.Destinations {
		remaining[d] = struct{}{}
	}
	if len(remaining) == 0 {
		return fmt.Errorf("auto route: draft has no destinations: %w", domain.ErrIncompleteRoute)
	}

	current := draft.Source
	ranks := make(map[string]int, len(remaining))
	next := 1

	for len(remaining) > 0 {
		best := ""
		minTravel := math.MaxFloat64

		for d := range remaining {
			t, ok := g.Travel(current, d)
			if !ok {
				return fmt.Errorf("auto route: travel %q -> %q: %w", current, d, domain.ErrUnknownRoute)
			}
			if t < minTravel || (t == minTravel && (best == "" || d < best)) {
				minTravel = t
				best = d
			}
		}

		ranks[best] = next
		next++
		delete(remaining, best)
		current = best
	}

	return SequenceRoute(g, draft, ranks)
}
