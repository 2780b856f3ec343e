package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/geo"
	"shipment-consolidation-service/internal/ports"
)

// AllocationService runs vehicle allocation for verified shipments: search,
// the reverse-shipment decision when the vehicle must be relocated, and the
// guarded assignment itself.
//
// Search results are ephemeral session state. No vehicle is held until Assign
// commits, so an abandoned or repeated search has no persisted side effects.
type AllocationService struct {
	Vehicles  ports.VehicleRepository
	Parcels   ports.ParcelRepository
	Shipments ports.ShipmentRepository
	Sessions  ports.SessionStore
	Geo       *geo.Graph
}

// FindVehicle locates a capacity-sufficient vehicle for a verified shipment.
//
// Vehicles parked at the shipment source win outright; otherwise free
// vehicles elsewhere are ranked by distance from their current branch to the
// source. Ties break on vehicle id so repeated searches against an unchanged
// fleet return the same candidate.
func (s *AllocationService) FindVehicle(ctx context.Context, shipmentID string) (*domain.AllocationSession, error) {
	shipment, err := s.Shipments.Find(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}
	if !shipment.CanAssignVehicle() {
		return nil, fmt.Errorf("find vehicle: shipment %q is %q: %w", shipmentID, shipment.Status, domain.ErrInvalidTransition)
	}

	fleet, err := s.Vehicles.ListFree(ctx)
	if err != nil {
		return nil, fmt.Errorf("find vehicle: list fleet: %w", err)
	}

	var atSource []*domain.Vehicle
	var elsewhere []*domain.Vehicle
	for _, v := range fleet {
		if !v.CanCarry(shipment.TotalWeightKg, shipment.TotalVolumeM3) {
			continue
		}
		if strings.EqualFold(v.CurrentLocation, shipment.Source) {
			atSource = append(atSource, v)
		} else {
			elsewhere = append(elsewhere, v)
		}
	}

	session := &domain.AllocationSession{
		SessionID:  uuid.NewString(),
		ShipmentID: shipmentID,
	}

	switch {
	case len(atSource) > 0:
		sort.Slice(atSource, func(i, j int) bool { return atSource[i].VehicleID < atSource[j].VehicleID })
		session.State = domain.AllocFoundAtSource
		session.Vehicle = candidateFrom(atSource[0], true, 0, 0)

	case len(elsewhere) > 0:
		best, distance, travel, err := s.nearestToSource(elsewhere, shipment.Source)
		if err != nil {
			return nil, fmt.Errorf("find vehicle: %w", err)
		}
		session.State = domain.AllocFoundElsewhere
		session.Vehicle = candidateFrom(best, false, distance, travel)

	default:
		return nil, fmt.Errorf("find vehicle: shipment %q: %w", shipmentID, domain.ErrNoVehicleAvailable)
	}

	if err := s.Sessions.PutAllocation(ctx, session); err != nil {
		return nil, fmt.Errorf("find vehicle: store session: %w", err)
	}
	return session, nil
}

// nearestToSource picks the vehicle with the smallest known distance to the
// source branch. Vehicles at branches with no known path are not candidates.
func (s *AllocationService) nearestToSource(vehicles []*domain.Vehicle, source string) (*domain.Vehicle, float64, float64, error) {
	var best *domain.Vehicle
	bestDistance := 0.0
	for _, v := range vehicles {
		d, ok := s.Geo.Distance(v.CurrentLocation, source)
		if !ok {
			continue
		}
		if best == nil || d < bestDistance || (d == bestDistance && v.VehicleID < best.VehicleID) {
			best = v
			bestDistance = d
		}
	}
	if best == nil {
		return nil, 0, 0, domain.ErrNoVehicleAvailable
	}

	travel, err := s.Geo.LegTravel(best.CurrentLocation, source)
	if err != nil {
		return nil, 0, 0, err
	}
	return best, bestDistance, travel, nil
}

func candidateFrom(v *domain.Vehicle, atSource bool, distance, travel float64) domain.VehicleCandidate {
	return domain.VehicleCandidate{
		VehicleID:          v.VehicleID,
		VehicleType:        v.VehicleType,
		MaxWeightKg:        v.MaxWeightKg,
		MaxVolumeM3:        v.MaxVolumeM3,
		CurrentLocation:    v.CurrentLocation,
		HomeLocation:       v.HomeLocation,
		DriverName:         v.DriverName,
		IsAtSource:         atSource,
		DistanceKm:         distance,
		EstimatedTimeHours: travel,
	}
}

// FindReverseParcels searches the pool at the found vehicle's branch for
// parcels it could carry toward the shipment source while relocating.
//
// Eligible parcels share the shipment's delivery class and are destined to
// its source branch. They are taken greedily in id order into the vehicle's
// remaining capacity, net of the original shipment's load the vehicle must
// still have room for, and capped by the class ceilings for the reverse leg.
func (s *AllocationService) FindReverseParcels(ctx context.Context, sessionID string) (*domain.AllocationSession, error) {
	session, err := s.Sessions.GetAllocation(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("find reverse parcels: %w", err)
	}
	if !session.CanSearchReverse() {
		return nil, fmt.Errorf("find reverse parcels: state %q: %w", session.State, domain.ErrInvalidTransition)
	}

	shipment, err := s.Shipments.Find(ctx, session.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("find reverse parcels: %w", err)
	}

	pool, err := s.Parcels.ListUnassigned(ctx, session.Vehicle.CurrentLocation)
	if err != nil {
		return nil, fmt.Errorf("find reverse parcels: list pool: %w", err)
	}

	eligible := FilterParcels(pool, ParcelFilter{
		Destination:   shipment.Source,
		DeliveryClass: string(shipment.DeliveryClass),
	})
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ParcelID < eligible[j].ParcelID })

	maxWeight, maxVolume, err := reverseCapacity(&session.Vehicle, shipment)
	if err != nil {
		return nil, fmt.Errorf("find reverse parcels: %w", err)
	}

	candidates := make([]domain.ParcelRef, 0, len(eligible))
	weight, volume := 0.0, 0.0
	for _, p := range eligible {
		if weight+p.WeightKg > maxWeight || volume+p.VolumeM3 > maxVolume {
			continue
		}
		weight += p.WeightKg
		volume += p.VolumeM3
		candidates = append(candidates, p.Ref())
	}

	distance, _ := s.Geo.Distance(session.Vehicle.CurrentLocation, shipment.Source)

	session.ReverseCandidates = candidates
	session.ReverseSummary = domain.ReverseSummary{
		Count:         len(candidates),
		TotalWeightKg: weight,
		TotalVolumeM3: volume,
		DistanceKm:    distance,
	}
	session.SelectedReverse = nil
	session.State = domain.AllocReverseFound

	if err := s.Sessions.PutAllocation(ctx, session); err != nil {
		return nil, fmt.Errorf("find reverse parcels: store session: %w", err)
	}
	return session, nil
}

// reverseCapacity is what the vehicle can carry on the relocation leg: its
// own limits minus the original shipment's load it must still fit later, also
// capped by the class ceilings that govern any shipment of this class.
func reverseCapacity(v *domain.VehicleCandidate, shipment *domain.Shipment) (float64, float64, error) {
	limits, err := domain.LimitsFor(shipment.DeliveryClass)
	if err != nil {
		return 0, 0, err
	}

	maxWeight := min(v.MaxWeightKg-shipment.TotalWeightKg, limits.MaxWeightKg)
	maxVolume := min(v.MaxVolumeM3-shipment.TotalVolumeM3, limits.MaxVolumeM3)
	if maxWeight < 0 {
		maxWeight = 0
	}
	if maxVolume < 0 {
		maxVolume = 0
	}
	return maxWeight, maxVolume, nil
}

// ConfirmReverseSelection records which candidate parcels the operator wants
// on the relocation leg. An empty selection is the explicit decision to
// relocate the vehicle empty.
func (s *AllocationService) ConfirmReverseSelection(ctx context.Context, sessionID string, parcelIDs []int) (*domain.AllocationSession, error) {
	session, err := s.Sessions.GetAllocation(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("confirm reverse selection: %w", err)
	}
	if !session.CanConfirmReverse() {
		return nil, fmt.Errorf("confirm reverse selection: state %q: %w", session.State, domain.ErrInvalidTransition)
	}

	if len(parcelIDs) == 0 {
		session.SelectedReverse = nil
		session.State = domain.AllocNoReverseNeeded
	} else {
		byID := make(map[int]struct{}, len(session.ReverseCandidates))
		for _, c := range session.ReverseCandidates {
			byID[c.ParcelID] = struct{}{}
		}
		for _, id := range parcelIDs {
			if _, ok := byID[id]; !ok {
				return nil, fmt.Errorf("confirm reverse selection: parcel %d is not a candidate", id)
			}
		}
		session.SelectedReverse = parcelIDs
		session.State = domain.AllocReverseConfirmed
	}

	if err := s.Sessions.PutAllocation(ctx, session); err != nil {
		return nil, fmt.Errorf("confirm reverse selection: store session: %w", err)
	}
	return session, nil
}

// CreateReverseShipment builds and persists the relocation shipment carrying
// the confirmed selection from the vehicle's branch to the shipment source.
// It reuses the ordinary batch, sequencing and smart-ETA rules and links the
// originating shipment.
func (s *AllocationService) CreateReverseShipment(ctx context.Context, sessionID string) (*domain.Shipment, error) {
	session, err := s.Sessions.GetAllocation(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}
	if !session.CanCreateReverse() {
		return nil, fmt.Errorf("create reverse shipment: state %q: %w", session.State, domain.ErrInvalidTransition)
	}

	shipment, err := s.Shipments.Find(ctx, session.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}

	parcels, err := s.Parcels.FindByIDs(ctx, session.SelectedReverse)
	if err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}

	draft, err := BuildBatch(shipment.DeliveryClass, session.Vehicle.CurrentLocation, shipment.CreatedByCenter, parcels)
	if err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}
	draft.ReverseOf = shipment.ShipmentID
	draft.VehicleID = session.Vehicle.VehicleID

	if err := SequenceRoute(s.Geo, draft, map[string]int{shipment.Source: 1}); err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}
	if err := EstimateSmartETA(s.Geo, draft); err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}

	reverse, err := commitDraft(ctx, s.Shipments, s.Parcels, draft)
	if err != nil {
		return nil, fmt.Errorf("create reverse shipment: %w", err)
	}

	session.ReverseShipmentID = reverse.ShipmentID
	session.State = domain.AllocReverseCreated
	if err := s.Sessions.PutAllocation(ctx, session); err != nil {
		return nil, fmt.Errorf("create reverse shipment: store session: %w", err)
	}
	return reverse, nil
}

// AssignmentResult is the committed outcome of one allocation attempt.
type AssignmentResult struct {
	ShipmentID        string                  `json:"shipment_id"`
	Vehicle           domain.VehicleCandidate `json:"vehicle"`
	ReverseShipmentID string                  `json:"reverse_shipment_id,omitempty"`
}

// Assign commits the found vehicle to the shipment. The vehicle repository
// performs the compare-and-set; losing a concurrent race surfaces as
// domain.ErrVehicleTaken and the caller re-runs the search.
func (s *AllocationService) Assign(ctx context.Context, sessionID string) (*AssignmentResult, error) {
	session, err := s.Sessions.GetAllocation(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("assign vehicle: %w", err)
	}
	if !session.CanAssign() {
		return nil, fmt.Errorf("assign vehicle: state %q: %w", session.State, domain.ErrInvalidTransition)
	}

	shipment, err := s.Shipments.Find(ctx, session.ShipmentID)
	if err != nil {
		return nil, fmt.Errorf("assign vehicle: %w", err)
	}
	if !shipment.CanAssignVehicle() {
		return nil, fmt.Errorf("assign vehicle: shipment %q is %q: %w", shipment.ShipmentID, shipment.Status, domain.ErrInvalidTransition)
	}

	if err := s.Vehicles.Assign(ctx, session.Vehicle.VehicleID, shipment.ShipmentID); err != nil {
		return nil, fmt.Errorf("assign vehicle: %w", err)
	}

	if err := s.Shipments.SetVehicle(ctx, shipment.ShipmentID, session.Vehicle.VehicleID, session.Vehicle.DriverName); err != nil {
		// Undo the reservation so the vehicle is not stranded on a
		// shipment that never recorded it.
		_ = s.Vehicles.Unassign(ctx, session.Vehicle.VehicleID)
		return nil, fmt.Errorf("assign vehicle: record on shipment: %w", err)
	}

	result := &AssignmentResult{
		ShipmentID:        shipment.ShipmentID,
		Vehicle:           session.Vehicle,
		ReverseShipmentID: session.ReverseShipmentID,
	}

	// The attempt is complete; the session has nothing left to resume.
	_ = s.Sessions.DeleteAllocation(ctx, sessionID)
	return result, nil
}

// Abort abandons an allocation attempt before assignment. Nothing was
// reserved, so dropping the session is the whole operation.
func (s *AllocationService) Abort(ctx context.Context, sessionID string) error {
	if err := s.Sessions.DeleteAllocation(ctx, sessionID); err != nil {
		return fmt.Errorf("abort allocation: %w", err)
	}
	return nil
}
