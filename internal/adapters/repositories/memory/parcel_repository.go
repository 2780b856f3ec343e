// Package memory provides mutex-guarded in-memory implementations of the
// repository and session ports, used by tests and local experiments.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"shipment-consolidation-service/internal/domain"
)

type ParcelRepository struct {
	mu      sync.RWMutex
	parcels map[int]*domain.Parcel
}

func NewParcelRepository() *ParcelRepository {
	return &ParcelRepository{parcels: make(map[int]*domain.Parcel)}
}

// Add registers parcels directly into the pool.
func (r *ParcelRepository) Add(parcels ...*domain.Parcel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range parcels {
		cp := *p
		if cp.Status == "" {
			cp.Status = domain.ParcelRegistered
		}
		r.parcels[cp.ParcelID] = &cp
	}
}

func (r *ParcelRepository) ListUnassigned(ctx context.Context, branch string) ([]*domain.Parcel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Parcel, 0, len(r.parcels))
	for _, p := range r.parcels {
		if p.Origin == branch && p.Status == domain.ParcelRegistered && p.ShipmentID == "" {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParcelID < out[j].ParcelID })
	return out, nil
}

func (r *ParcelRepository) FindByIDs(ctx context.Context, ids []int) ([]*domain.Parcel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Parcel, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.parcels[id]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParcelID < out[j].ParcelID })
	return out, nil
}

func (r *ParcelRepository) MarkAssigned(ctx context.Context, ids []int, shipmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		p, ok := r.parcels[id]
		if !ok || p.Status != domain.ParcelRegistered || p.ShipmentID != "" {
			return fmt.Errorf("mark parcels assigned: parcel %d is not pooled", id)
		}
	}
	for _, id := range ids {
		r.parcels[id].Status = domain.ParcelAssigned
		r.parcels[id].ShipmentID = shipmentID
	}
	return nil
}

func (r *ParcelRepository) Release(ctx context.Context, ids []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		if p, ok := r.parcels[id]; ok {
			p.Status = domain.ParcelRegistered
			p.ShipmentID = ""
		}
	}
	return nil
}
