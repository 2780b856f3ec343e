package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"shipment-consolidation-service/internal/domain"
)

type VehicleRepository struct {
	mu       sync.Mutex
	vehicles map[string]*domain.Vehicle
}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{vehicles: make(map[string]*domain.Vehicle)}
}

func (r *VehicleRepository) Add(vehicles ...*domain.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range vehicles {
		cp := *v
		r.vehicles[cp.VehicleID] = &cp
	}
}

func (r *VehicleRepository) ListFree(ctx context.Context) ([]*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		if v.AssignedShipmentID == "" {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out, nil
}

func (r *VehicleRepository) Find(ctx context.Context, id string) (*domain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("find vehicle %q: %w", id, domain.ErrUnknownVehicle)
	}
	cp := *v
	return &cp, nil
}

// Assign holds the lock across check and write, matching the atomic
// conditional update the SQL adapter performs.
func (r *VehicleRepository) Assign(ctx context.Context, vehicleID, shipmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.vehicles[vehicleID]
	if !ok {
		return fmt.Errorf("assign vehicle %q: %w", vehicleID, domain.ErrUnknownVehicle)
	}
	if v.AssignedShipmentID != "" {
		return fmt.Errorf("assign vehicle %q: %w", vehicleID, domain.ErrVehicleTaken)
	}
	v.AssignedShipmentID = shipmentID
	return nil
}

func (r *VehicleRepository) Unassign(ctx context.Context, vehicleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.vehicles[vehicleID]; ok {
		v.AssignedShipmentID = ""
	}
	return nil
}
