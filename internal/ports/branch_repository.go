package ports

import (
	"context"

	"shipment-consolidation-service/internal/domain"
)

// Port: read-only access to branch reference data.
type BranchRepository interface {
	ListBranches(ctx context.Context) ([]*domain.Branch, error)
}
