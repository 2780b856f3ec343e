package ports

import (
	"context"

	"shipment-consolidation-service/internal/domain"
)

// Port: boundary for the persistent shipment store.
type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error

	// Find returns domain.ErrUnknownShipment when the id does not exist.
	Find(ctx context.Context, id string) (*domain.Shipment, error)

	List(ctx context.Context, branch string) ([]*domain.Shipment, error)

	// UpdateStatus moves a shipment from one status to another as a single
	// conditional write. It returns domain.ErrInvalidTransition when the
	// shipment is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, from, to domain.ShipmentStatus, confirmed bool) error

	// SetVehicle records the assigned vehicle and driver and moves the
	// shipment to vehicle_assigned.
	SetVehicle(ctx context.Context, id, vehicleID, driverName string) error

	Delete(ctx context.Context, id string) error
}
