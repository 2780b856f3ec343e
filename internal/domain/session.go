package domain

// The multi-step operator flows (build a shipment, allocate a vehicle) keep
// their intermediate results in serializable session objects held by a session
// store, so the engine itself stays stateless between calls. A session can be
// resumed from any step or abandoned without persisted side effects.

// DraftPhase names how far a shipment draft has progressed.
type DraftPhase string

const (
	PhaseParcelsSelected DraftPhase = "parcels_selected"
	PhaseRouteCalculated DraftPhase = "route_calculated"
	PhaseETACalculated   DraftPhase = "eta_calculated"
)

// ShipmentDraft is the in-progress shipment a session carries between the
// batch, sequence and ETA steps. Only CreateShipment turns it into a
// persisted Shipment.
type ShipmentDraft struct {
	DraftID         string        `json:"draft_id"`
	DeliveryClass   DeliveryClass `json:"delivery_class"`
	Source          string        `json:"source"`
	CreatedByCenter string        `json:"created_by_center"`
	Parcels         []ParcelRef   `json:"parcels"`
	Destinations    []string      `json:"destinations"`
	TotalWeightKg   float64       `json:"total_weight_kg"`
	TotalVolumeM3   float64       `json:"total_volume_m3"`
	Phase           DraftPhase    `json:"phase"`
	Route           []string      `json:"route,omitempty"`
	TotalDistanceKm float64       `json:"total_distance_km,omitempty"`
	ArrivalTimes    []StopETA     `json:"arrival_times,omitempty"`
	TotalTimeHours  float64       `json:"total_time_hours,omitempty"`

	// ReverseOf and VehicleID are set when the draft builds a relocation
	// shipment on behalf of an allocation session.
	ReverseOf string `json:"reverse_of,omitempty"`
	VehicleID string `json:"vehicle_id,omitempty"`
}

// ParcelIDs lists the ids of all parcels attached to the draft.
func (d *ShipmentDraft) ParcelIDs() []int {
	ids := make([]int, 0, len(d.Parcels))
	for _, p := range d.Parcels {
		ids = append(ids, p.ParcelID)
	}
	return ids
}

// AllocationState names a step of one vehicle-allocation attempt.
type AllocationState string

const (
	AllocSearching        AllocationState = "searching"
	AllocFoundAtSource    AllocationState = "vehicle_found_at_source"
	AllocFoundElsewhere   AllocationState = "vehicle_found_elsewhere"
	AllocReverseFound     AllocationState = "reverse_candidates_found"
	AllocReverseConfirmed AllocationState = "reverse_confirmed"
	AllocNoReverseNeeded  AllocationState = "no_reverse_needed"
	AllocReverseCreated   AllocationState = "reverse_created"
	AllocAssigned         AllocationState = "assigned"
)

// VehicleCandidate is the session snapshot of a found vehicle, including its
// relocation leg when it is not parked at the shipment source.
type VehicleCandidate struct {
	VehicleID          string  `json:"vehicle_id"`
	VehicleType        string  `json:"vehicle_type"`
	MaxWeightKg        float64 `json:"max_weight_kg"`
	MaxVolumeM3        float64 `json:"max_volume_m3"`
	CurrentLocation    string  `json:"current_location"`
	HomeLocation       string  `json:"home_location"`
	DriverName         string  `json:"driver_name"`
	IsAtSource         bool    `json:"is_at_source"`
	DistanceKm         float64 `json:"distance_km,omitempty"`
	EstimatedTimeHours float64 `json:"estimated_time_hours,omitempty"`
}

// ReverseSummary aggregates the parcels eligible for a reverse shipment.
type ReverseSummary struct {
	Count         int     `json:"count"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	TotalVolumeM3 float64 `json:"total_volume_m3"`
	DistanceKm    float64 `json:"distance_km"`
}

// AllocationSession carries one allocation attempt for one shipment across
// the search, reverse-shipment decision and assign steps. Nothing it holds is
// reserved: a vehicle is only committed when Assign succeeds.
type AllocationSession struct {
	SessionID         string           `json:"session_id"`
	ShipmentID        string           `json:"shipment_id"`
	State             AllocationState  `json:"state"`
	Vehicle           VehicleCandidate `json:"vehicle"`
	ReverseCandidates []ParcelRef      `json:"reverse_candidates,omitempty"`
	ReverseSummary    ReverseSummary   `json:"reverse_summary"`
	SelectedReverse   []int            `json:"selected_reverse,omitempty"`
	ReverseShipmentID string           `json:"reverse_shipment_id,omitempty"`
}

// CanSearchReverse reports whether the session is at a step where reverse
// parcel search makes sense.
func (a *AllocationSession) CanSearchReverse() bool {
	switch a.State {
	case AllocFoundElsewhere, AllocReverseFound, AllocNoReverseNeeded:
		return true
	}
	return false
}

// CanConfirmReverse reports whether a reverse selection may be recorded.
func (a *AllocationSession) CanConfirmReverse() bool {
	switch a.State {
	case AllocFoundElsewhere, AllocReverseFound, AllocReverseConfirmed, AllocNoReverseNeeded:
		return true
	}
	return false
}

// CanCreateReverse reports whether a reverse shipment may be built.
func (a *AllocationSession) CanCreateReverse() bool {
	return a.State == AllocReverseConfirmed && len(a.SelectedReverse) > 0
}

// CanAssign reports whether the session may proceed to vehicle assignment.
// A vehicle found away from the source needs either a created reverse
// shipment or an explicit decision to relocate it empty.
func (a *AllocationSession) CanAssign() bool {
	switch a.State {
	case AllocFoundAtSource, AllocNoReverseNeeded, AllocReverseCreated:
		return true
	}
	return false
}
