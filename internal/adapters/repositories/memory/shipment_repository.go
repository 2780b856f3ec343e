package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"shipment-consolidation-service/internal/domain"
)

type ShipmentRepository struct {
	mu        sync.RWMutex
	shipments map[string]*domain.Shipment

	// FailVerify lists shipment ids whose status updates fail with an
	// injected error, for partial-failure tests.
	FailVerify map[string]bool
}

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{shipments: make(map[string]*domain.Shipment)}
}

func (r *ShipmentRepository) Create(ctx context.Context, s *domain.Shipment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[s.ShipmentID]; ok {
		return fmt.Errorf("create shipment: duplicate id %q", s.ShipmentID)
	}
	cp := *s
	r.shipments[s.ShipmentID] = &cp
	return nil
}

func (r *ShipmentRepository) Find(ctx context.Context, id string) (*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shipments[id]
	if !ok {
		return nil, fmt.Errorf("find shipment %q: %w", id, domain.ErrUnknownShipment)
	}
	cp := *s
	return &cp, nil
}

func (r *ShipmentRepository) List(ctx context.Context, branch string) ([]*domain.Shipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Shipment, 0, len(r.shipments))
	for _, s := range r.shipments {
		if s.Source == branch || s.CreatedByCenter == branch {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ShipmentID < out[j].ShipmentID })
	return out, nil
}

func (r *ShipmentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ShipmentStatus, confirmed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.FailVerify[id] {
		return fmt.Errorf("update shipment %q: injected failure", id)
	}

	s, ok := r.shipments[id]
	if !ok {
		return fmt.Errorf("update shipment %q: %w", id, domain.ErrUnknownShipment)
	}
	if s.Status != from {
		return fmt.Errorf("update shipment %q: %w", id, domain.ErrInvalidTransition)
	}
	s.Status = to
	s.Confirmed = confirmed
	return nil
}

func (r *ShipmentRepository) SetVehicle(ctx context.Context, id, vehicleID, driverName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shipments[id]
	if !ok {
		return fmt.Errorf("set vehicle on %q: %w", id, domain.ErrUnknownShipment)
	}
	if s.Status != domain.StatusVerified || !s.Confirmed {
		return fmt.Errorf("set vehicle on %q: %w", id, domain.ErrInvalidTransition)
	}
	s.VehicleID = vehicleID
	s.DriverName = driverName
	s.Status = domain.StatusVehicleAssigned
	return nil
}

func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.shipments[id]; !ok {
		return fmt.Errorf("delete shipment %q: %w", id, domain.ErrUnknownShipment)
	}
	delete(r.shipments, id)
	return nil
}
