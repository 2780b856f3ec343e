package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/geo"
	"shipment-consolidation-service/internal/ports"
)

// ShipmentService orchestrates the draft wizard and the persisted shipment
// lifecycle. Every method is a discrete, independently retryable call;
// intermediate state lives in the session store, never in the service.
type ShipmentService struct {
	Parcels   ports.ParcelRepository
	Shipments ports.ShipmentRepository
	Sessions  ports.SessionStore
	Geo       *geo.Graph
}

// StartDraft batches the selected parcels into a new shipment draft and
// stores it as a session.
func (s *ShipmentService) StartDraft(ctx context.Context, class domain.DeliveryClass, source, createdBy string, parcelIDs []int) (*domain.ShipmentDraft, error) {
	parcels, err := s.loadPoolParcels(ctx, source, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("start draft: %w", err)
	}

	draft, err := BuildBatch(class, source, createdBy, parcels)
	if err != nil {
		return nil, fmt.Errorf("start draft: %w", err)
	}

	if err := s.Sessions.PutDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("start draft: store session: %w", err)
	}
	return draft, nil
}

// SetRoute finalizes the draft's stop order from operator ranks.
func (s *ShipmentService) SetRoute(ctx context.Context, draftID string, ranks map[string]int) (*domain.ShipmentDraft, error) {
	draft, err := s.Sessions.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("set route: %w", err)
	}

	if err := SequenceRoute(s.Geo, draft, ranks); err != nil {
		return nil, fmt.Errorf("set route: %w", err)
	}

	if err := s.Sessions.PutDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("set route: store session: %w", err)
	}
	return draft, nil
}

// SetSmartETA runs the buffer-table estimator over the draft's route.
func (s *ShipmentService) SetSmartETA(ctx context.Context, draftID string) (*domain.ShipmentDraft, error) {
	return s.setETA(ctx, draftID, func(d *domain.ShipmentDraft) error {
		return EstimateSmartETA(s.Geo, d)
	})
}

// SetSimpleETA divides an operator-supplied total time across the stops.
func (s *ShipmentService) SetSimpleETA(ctx context.Context, draftID string, totalHours float64) (*domain.ShipmentDraft, error) {
	return s.setETA(ctx, draftID, func(d *domain.ShipmentDraft) error {
		return EstimateSimpleETA(d, totalHours)
	})
}

func (s *ShipmentService) setETA(ctx context.Context, draftID string, estimate func(*domain.ShipmentDraft) error) (*domain.ShipmentDraft, error) {
	draft, err := s.Sessions.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("set eta: %w", err)
	}

	if err := estimate(draft); err != nil {
		return nil, fmt.Errorf("set eta: %w", err)
	}

	if err := s.Sessions.PutDraft(ctx, draft); err != nil {
		return nil, fmt.Errorf("set eta: store session: %w", err)
	}
	return draft, nil
}

// CreateShipment persists a fully prepared draft as a pending shipment,
// transfers its parcels out of the pool, and drops the draft session.
func (s *ShipmentService) CreateShipment(ctx context.Context, draftID string) (*domain.Shipment, error) {
	draft, err := s.Sessions.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("create shipment: %w", err)
	}

	shipment, err := s.persistDraft(ctx, draft)
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.DeleteDraft(ctx, draftID); err != nil {
		// The shipment is committed; a leftover session only expires later.
		return shipment, nil
	}
	return shipment, nil
}

// AutoCreate is the one-click path: batch, nearest-neighbor route, smart ETA
// and persist in a single call, with no session round-trips.
func (s *ShipmentService) AutoCreate(ctx context.Context, class domain.DeliveryClass, source, createdBy string, parcelIDs []int) (*domain.Shipment, error) {
	parcels, err := s.loadPoolParcels(ctx, source, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("auto create: %w", err)
	}

	draft, err := BuildBatch(class, source, createdBy, parcels)
	if err != nil {
		return nil, fmt.Errorf("auto create: %w", err)
	}
	if err := AutoRoute(s.Geo, draft); err != nil {
		return nil, fmt.Errorf("auto create: %w", err)
	}
	if err := EstimateSmartETA(s.Geo, draft); err != nil {
		return nil, fmt.Errorf("auto create: %w", err)
	}

	return s.persistDraft(ctx, draft)
}

func (s *ShipmentService) persistDraft(ctx context.Context, draft *domain.ShipmentDraft) (*domain.Shipment, error) {
	return commitDraft(ctx, s.Shipments, s.Parcels, draft)
}

// commitDraft turns a fully prepared draft into a persisted pending shipment
// and transfers its parcels out of the pool. Shared by the operator wizard,
// the one-click path and reverse-shipment creation.
func commitDraft(ctx context.Context, shipments ports.ShipmentRepository, parcelRepo ports.ParcelRepository, draft *domain.ShipmentDraft) (*domain.Shipment, error) {
	if draft.Phase != domain.PhaseETACalculated || len(draft.Parcels) == 0 {
		return nil, fmt.Errorf("create shipment: %w", domain.ErrNotReadyForCreation)
	}

	shipment := &domain.Shipment{
		ShipmentID:      uuid.NewString(),
		DeliveryClass:   draft.DeliveryClass,
		Source:          draft.Source,
		Route:           draft.Route,
		ArrivalTimes:    draft.ArrivalTimes,
		TotalDistanceKm: draft.TotalDistanceKm,
		TotalTimeHours:  draft.TotalTimeHours,
		TotalWeightKg:   draft.TotalWeightKg,
		TotalVolumeM3:   draft.TotalVolumeM3,
		ParcelCount:     len(draft.Parcels),
		ParcelIDs:       draft.ParcelIDs(),
		Status:          domain.StatusPending,
		Confirmed:       false,
		CreatedByCenter: draft.CreatedByCenter,
		ReverseOf:       draft.ReverseOf,
		VehicleID:       draft.VehicleID,
		CreatedAt:       time.Now().UTC(),
	}

	if err := shipments.Create(ctx, shipment); err != nil {
		return nil, fmt.Errorf("create shipment: persist: %w", err)
	}
	if err := parcelRepo.MarkAssigned(ctx, shipment.ParcelIDs, shipment.ShipmentID); err != nil {
		// Roll the shipment back so no parcel-less shipment lingers.
		_ = shipments.Delete(ctx, shipment.ShipmentID)
		return nil, fmt.Errorf("create shipment: attach parcels: %w", err)
	}
	return shipment, nil
}

// Verify moves a pending shipment to verified and marks it confirmed.
func (s *ShipmentService) Verify(ctx context.Context, shipmentID string) error {
	shipment, err := s.Shipments.Find(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("verify shipment: %w", err)
	}
	if !shipment.CanVerify() {
		return fmt.Errorf("verify shipment: status %q: %w", shipment.Status, domain.ErrInvalidTransition)
	}

	if err := s.Shipments.UpdateStatus(ctx, shipmentID, domain.StatusPending, domain.StatusVerified, true); err != nil {
		return fmt.Errorf("verify shipment: %w", err)
	}
	return nil
}

// Delete removes a shipment that has not yet been dispatched and returns its
// parcels to the pool.
func (s *ShipmentService) Delete(ctx context.Context, shipmentID string) error {
	shipment, err := s.Shipments.Find(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	if !shipment.CanDelete() {
		return fmt.Errorf("delete shipment: status %q: %w", shipment.Status, domain.ErrInvalidTransition)
	}

	if err := s.Parcels.Release(ctx, shipment.ParcelIDs); err != nil {
		return fmt.Errorf("delete shipment: release parcels: %w", err)
	}
	if err := s.Shipments.Delete(ctx, shipmentID); err != nil {
		return fmt.Errorf("delete shipment: %w", err)
	}
	return nil
}

// BulkItemResult reports the outcome for one shipment of a bulk operation.
type BulkItemResult struct {
	ShipmentID string `json:"shipment_id"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// BulkResult aggregates a bulk verify or delete. Items are always all
// attempted; failures never abort the rest.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// VerifyBulk verifies each shipment independently and concurrently.
func (s *ShipmentService) VerifyBulk(ctx context.Context, shipmentIDs []string) BulkResult {
	return s.bulk(ctx, shipmentIDs, s.Verify)
}

// DeleteBulk deletes each shipment independently and concurrently.
func (s *ShipmentService) DeleteBulk(ctx context.Context, shipmentIDs []string) BulkResult {
	return s.bulk(ctx, shipmentIDs, s.Delete)
}

func (s *ShipmentService) bulk(ctx context.Context, ids []string, op func(context.Context, string) error) BulkResult {
	sem := make(chan struct{}, 5)
	resultsCh := make(chan BulkItemResult, len(ids))
	var wg sync.WaitGroup

	for _, id := range ids {
		wg.Add(1)
		go func(shipmentID string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			if err := op(ctx, shipmentID); err != nil {
				resultsCh <- BulkItemResult{ShipmentID: shipmentID, Error: err.Error()}
				return
			}
			resultsCh <- BulkItemResult{ShipmentID: shipmentID, OK: true}
		}(id)
	}

	wg.Wait()
	close(resultsCh)

	res := BulkResult{Items: make([]BulkItemResult, 0, len(ids))}
	for item := range resultsCh {
		if item.OK {
			res.Succeeded++
		} else {
			res.Failed++
		}
		res.Items = append(res.Items, item)
	}
	sort.Slice(res.Items, func(i, j int) bool { return res.Items[i].ShipmentID < res.Items[j].ShipmentID })
	return res
}

// Abandon drops a draft session without side effects.
func (s *ShipmentService) Abandon(ctx context.Context, draftID string) error {
	if err := s.Sessions.DeleteDraft(ctx, draftID); err != nil {
		return fmt.Errorf("abandon draft: %w", err)
	}
	return nil
}

func (s *ShipmentService) loadPoolParcels(ctx context.Context, source string, parcelIDs []int) ([]*domain.Parcel, error) {
	if len(parcelIDs) == 0 {
		return nil, domain.ErrNotReadyForCreation
	}

	parcels, err := s.Parcels.FindByIDs(ctx, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("load parcels: %w", err)
	}
	if len(parcels) != len(parcelIDs) {
		return nil, fmt.Errorf("load parcels: %d of %d selected parcels found", len(parcels), len(parcelIDs))
	}

	for _, p := range parcels {
		if p.Status != domain.ParcelRegistered {
			return nil, fmt.Errorf("load parcels: parcel %d is %q, not in the pool", p.ParcelID, p.Status)
		}
		if p.Origin != source {
			return nil, fmt.Errorf("load parcels: parcel %d is pooled at %q, not %q", p.ParcelID, p.Origin, source)
		}
	}
	return parcels, nil
}
