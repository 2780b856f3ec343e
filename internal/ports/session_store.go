package ports

import (
	"context"

	"shipment-consolidation-service/internal/domain"
)

// Port: short-lived store for the serializable wizard state. Entries expire
// on their own; an expired or unknown id surfaces as domain.ErrUnknownSession.
type SessionStore interface {
	PutDraft(ctx context.Context, d *domain.ShipmentDraft) error
	GetDraft(ctx context.Context, id string) (*domain.ShipmentDraft, error)
	DeleteDraft(ctx context.Context, id string) error

	PutAllocation(ctx context.Context, a *domain.AllocationSession) error
	GetAllocation(ctx context.Context, id string) (*domain.AllocationSession, error)
	DeleteAllocation(ctx context.Context, id string) error
}
