package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-correctable and not-found conditions.
var (
	ErrIncompleteRoute      = errors.New("route ranks must cover 1..N exactly once per destination")
	ErrMissingDeliveryClass = errors.New("delivery class is required")
	ErrInvalidDuration      = errors.New("total shipment time must be greater than zero")
	ErrNotReadyForCreation  = errors.New("shipment needs a calculated route, calculated ETA and at least one parcel")
	ErrNoVehicleAvailable   = errors.New("no vehicle with sufficient capacity is available")
	ErrVehicleTaken         = errors.New("vehicle is already assigned to an active shipment")
	ErrUnknownRoute         = errors.New("no known path between locations")
	ErrUnknownShipment      = errors.New("unknown shipment")
	ErrUnknownVehicle       = errors.New("unknown vehicle")
	ErrUnknownSession       = errors.New("unknown or expired session")
	ErrInvalidTransition    = errors.New("operation not allowed in current state")
)

// ClassMismatchError reports parcels whose delivery class differs from the
// class requested for the batch.
type ClassMismatchError struct {
	Want  DeliveryClass
	Got   DeliveryClass
	Count int
}

func (e *ClassMismatchError) Error() string {
	return fmt.Sprintf("class mismatch: %d parcel(s) are %q, batch requires %q", e.Count, e.Got, e.Want)
}

// CapacityExceededError reports which ceiling a selection or route breaks.
// Dimension is one of "weight", "volume", "distance", "time".
type CapacityExceededError struct {
	Dimension string
	Limit     float64
	Actual    float64
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity exceeded: %s %.2f over limit %.2f", e.Dimension, e.Actual, e.Limit)
}
