package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"shipment-consolidation-service/internal/domain"
)

func newTestStore(t *testing.T) (*RedisSessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisSessionStore(client, time.Minute), mr
}

func TestDraftRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	draft := &domain.ShipmentDraft{
		DraftID:       "draft-1",
		DeliveryClass: domain.ClassExpress,
		Source:        "Colombo",
		Parcels:       []domain.ParcelRef{{ParcelID: 1, Destination: "Kandy", WeightKg: 2, VolumeM3: 0.02}},
		Destinations:  []string{"Kandy"},
		TotalWeightKg: 2,
		TotalVolumeM3: 0.02,
		Phase:         domain.PhaseParcelsSelected,
	}

	if err := store.PutDraft(ctx, draft); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetDraft(ctx, "draft-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Source != "Colombo" || got.Phase != domain.PhaseParcelsSelected {
		t.Fatalf("got = %+v, want the stored draft back", got)
	}
	if len(got.Parcels) != 1 || got.Parcels[0].ParcelID != 1 {
		t.Fatalf("parcels = %v, want the stored snapshot", got.Parcels)
	}

	if err := store.DeleteDraft(ctx, "draft-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetDraft(ctx, "draft-1"); !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("err = %v, want ErrUnknownSession", err)
	}
}

func TestAllocationRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	session := &domain.AllocationSession{
		SessionID:  "alloc-1",
		ShipmentID: "ship-1",
		State:      domain.AllocFoundElsewhere,
		Vehicle: domain.VehicleCandidate{
			VehicleID:       "LT-002",
			CurrentLocation: "Kandy",
			DistanceKm:      120,
		},
	}

	if err := store.PutAllocation(ctx, session); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := store.GetAllocation(ctx, "alloc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != domain.AllocFoundElsewhere || got.Vehicle.VehicleID != "LT-002" {
		t.Fatalf("got = %+v, want the stored session back", got)
	}
}

func TestSessionsExpire(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	draft := &domain.ShipmentDraft{DraftID: "draft-1", Phase: domain.PhaseParcelsSelected}
	if err := store.PutDraft(ctx, draft); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.GetDraft(ctx, "draft-1"); !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("err = %v, want expired session to read as unknown", err)
	}
}

func TestUnknownSessionMiss(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.GetAllocation(context.Background(), "nope"); !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("err = %v, want ErrUnknownSession", err)
	}
}
