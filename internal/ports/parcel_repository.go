package ports

import (
	"context"

	"shipment-consolidation-service/internal/domain"
)

// Port: boundary for the pool of parcels awaiting consolidation.
type ParcelRepository interface {
	// ListUnassigned returns every parcel still pooled at the given branch.
	ListUnassigned(ctx context.Context, branch string) ([]*domain.Parcel, error)

	// FindByIDs returns the parcels with the given ids, in any order.
	// A missing id is an error: callers pass ids they just listed.
	FindByIDs(ctx context.Context, ids []int) ([]*domain.Parcel, error)

	// MarkAssigned detaches parcels from the pool and records the owning
	// shipment.
	MarkAssigned(ctx context.Context, ids []int, shipmentID string) error

	// Release returns parcels to the pool, clearing the shipment link and
	// restoring their pre-shipment status.
	Release(ctx context.Context, ids []int) error
}
