package services

import (
	"fmt"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/geo"
)

// EstimateSmartETA computes cumulative arrival times for a sequenced draft
// from geo travel times plus the class buffer table.
//
// The clock starts at the first (preparation) buffer. Each stop then adds its
// travel leg and an intermediate buffer, except the final stop which adds the
// last buffer. The resulting sequence is strictly increasing; the final
// cumulative value becomes the shipment total time.
func EstimateSmartETA(g *geo.Graph, draft *domain.ShipmentDraft) error {
	if draft.Phase != domain.PhaseRouteCalculated && draft.Phase != domain.PhaseETACalculated {
		return fmt.Errorf("smart eta: route not calculated: %w", domain.ErrInvalidTransition)
	}
	if draft.DeliveryClass == "" {
		return fmt.Errorf("smart eta: %w", domain.ErrMissingDeliveryClass)
	}

	buffers, err := domain.BuffersFor(draft.DeliveryClass)
	if err != nil {
		return fmt.Errorf("smart eta: %w", err)
	}
	limits, err := domain.LimitsFor(draft.DeliveryClass)
	if err != nil {
		return fmt.Errorf("smart eta: %w", err)
	}

	cumulative := buffers.FirstHours
	prev := draft.Source
	arrivals := make([]domain.StopETA, 0, len(draft.Route))

	for i, stop := range draft.Route {
		travel, err := g.LegTravel(prev, stop)
		if err != nil {
			return fmt.Errorf("smart eta: %w", err)
		}

		buffer := buffers.IntermediateHours
		if i == len(draft.Route)-1 {
			buffer = buffers.LastHours
		}

		segment := travel + buffer
		cumulative += segment
		arrivals = append(arrivals, domain.StopETA{
			Center:          stop,
			TravelHours:     travel,
			BufferHours:     buffer,
			SegmentHours:    segment,
			CumulativeHours: cumulative,
		})
		prev = stop
	}

	if cumulative > limits.MaxTimeHours {
		return &domain.CapacityExceededError{Dimension: "time", Limit: limits.MaxTimeHours, Actual: cumulative}
	}

	draft.ArrivalTimes = arrivals
	draft.TotalTimeHours = cumulative
	draft.Phase = domain.PhaseETACalculated
	return nil
}

// EstimateSimpleETA divides a caller-supplied total shipment time equally
// across the stops of a sequenced draft, ignoring the travel/buffer model.
func EstimateSimpleETA(draft *domain.ShipmentDraft, totalHours float64) error {
	if draft.Phase != domain.PhaseRouteCalculated && draft.Phase != domain.PhaseETACalculated {
		return fmt.Errorf("simple eta: route not calculated: %w", domain.ErrInvalidTransition)
	}
	if totalHours <= 0 {
		return fmt.Errorf("simple eta: %.2f hours: %w", totalHours, domain.ErrInvalidDuration)
	}

	n := len(draft.Route)
	share := totalHours / float64(n)

	arrivals := make([]domain.StopETA, 0, n)
	for i, stop := range draft.Route {
		arrivals = append(arrivals, domain.StopETA{
			Center:          stop,
			SegmentHours:    share,
			CumulativeHours: share * float64(i+1),
		})
	}

	draft.ArrivalTimes = arrivals
	draft.TotalTimeHours = totalHours
	draft.Phase = domain.PhaseETACalculated
	return nil
}
