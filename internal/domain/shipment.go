package domain

import "time"

// ShipmentStatus is the persisted lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending         ShipmentStatus = "pending"
	StatusVerified        ShipmentStatus = "verified"
	StatusVehicleAssigned ShipmentStatus = "vehicle_assigned"
	StatusInTransit       ShipmentStatus = "in_transit"
	StatusCompleted       ShipmentStatus = "completed"
)

// StopETA records the estimated arrival at a single route stop. Hours are
// cumulative from departure; travel/buffer/segment describe the leg that ends
// at this stop.
type StopETA struct {
	Center          string  `json:"center"`
	TravelHours     float64 `json:"travel_hours"`
	BufferHours     float64 `json:"buffer_hours"`
	SegmentHours    float64 `json:"segment_hours"`
	CumulativeHours float64 `json:"cumulative_hours"`
}

// Shipment is a confirmed consolidation of parcels travelling one route. The
// route lists destination stops in visiting order; the source branch is the
// implicit origin and never appears as a stop.
type Shipment struct {
	ShipmentID      string
	DeliveryClass   DeliveryClass
	Source          string
	Route           []string
	ArrivalTimes    []StopETA
	TotalDistanceKm float64
	TotalTimeHours  float64
	TotalWeightKg   float64
	TotalVolumeM3   float64
	ParcelCount     int
	ParcelIDs       []int
	Status          ShipmentStatus
	Confirmed       bool
	CreatedByCenter string
	VehicleID       string
	DriverName      string

	// ReverseOf links a relocation shipment back to the shipment whose
	// vehicle search triggered it. Empty for ordinary shipments.
	ReverseOf string

	CreatedAt time.Time
}

// IsReverse reports whether this shipment exists to relocate a vehicle.
func (s *Shipment) IsReverse() bool { return s.ReverseOf != "" }

// CanVerify reports whether the shipment may move to Verified.
func (s *Shipment) CanVerify() bool { return s.Status == StatusPending }

// CanDelete reports whether the shipment may still be removed. Once a vehicle
// is assigned the shipment is committed.
func (s *Shipment) CanDelete() bool {
	return s.Status == StatusPending || s.Status == StatusVerified
}

// CanAssignVehicle reports whether vehicle allocation may run.
func (s *Shipment) CanAssignVehicle() bool {
	return s.Status == StatusVerified && s.Confirmed
}
