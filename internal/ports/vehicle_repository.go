package ports

import (
	"context"

	"shipment-consolidation-service/internal/domain"
)

// Port: boundary for the vehicle fleet.
type VehicleRepository interface {
	// ListFree returns vehicles with no active assignment, at every branch.
	ListFree(ctx context.Context) ([]*domain.Vehicle, error)

	// Find returns domain.ErrUnknownVehicle when the id does not exist.
	Find(ctx context.Context, id string) (*domain.Vehicle, error)

	// Assign records "vehicle V carries shipment S" only if V currently has
	// no active assignment. A losing concurrent attempt returns
	// domain.ErrVehicleTaken; the implementation must make the check and the
	// write atomic.
	Assign(ctx context.Context, vehicleID, shipmentID string) error

	// Unassign frees the vehicle after its shipment completes or is removed.
	Unassign(ctx context.Context, vehicleID string) error
}
