package services

import (
	"context"
	"fmt"
	"strings"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/ports"
)

// ParcelFilter narrows a parcel listing. Empty fields match everything;
// populated fields are compared case-insensitively and AND-combined.
type ParcelFilter struct {
	Destination   string
	Size          string
	ItemType      string
	DeliveryClass string
}

// FilterParcels applies the filter to an in-memory parcel list.
func FilterParcels(parcels []*domain.Parcel, f ParcelFilter) []*domain.Parcel {
	out := make([]*domain.Parcel, 0, len(parcels))
	for _, p := range parcels {
		if !fieldMatches(f.Destination, p.Destination) {
			continue
		}
		if !fieldMatches(f.Size, p.Size) {
			continue
		}
		if !fieldMatches(f.ItemType, p.ItemType) {
			continue
		}
		if !fieldMatches(f.DeliveryClass, string(p.DeliveryClass)) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func fieldMatches(want, got string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return strings.EqualFold(want, got)
}

// ListPool returns the unassigned parcels at a branch, filtered.
func ListPool(ctx context.Context, repo ports.ParcelRepository, branch string, f ParcelFilter) ([]*domain.Parcel, error) {
	parcels, err := repo.ListUnassigned(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("list pool: branch %q: %w", branch, err)
	}
	return FilterParcels(parcels, f), nil
}
