package services

import (
	"errors"
	"math"
	"testing"

	"shipment-consolidation-service/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func poolParcel(id int, dest, size string, class domain.DeliveryClass) *domain.Parcel {
	s := domain.ParcelSizes[size]
	return &domain.Parcel{
		ParcelID:      id,
		Origin:        "Colombo",
		Destination:   dest,
		Size:          size,
		ItemType:      "general",
		WeightKg:      s.WeightKg,
		VolumeM3:      s.VolumeM3,
		DeliveryClass: class,
		Status:        domain.ParcelRegistered,
	}
}

func TestBuildBatch(t *testing.T) {
	parcels := []*domain.Parcel{
		poolParcel(1, "Kandy", "small", domain.ClassExpress),
		poolParcel(2, "Galle", "medium", domain.ClassExpress),
		poolParcel(3, "Kandy", "medium", domain.ClassExpress),
	}

	draft, err := BuildBatch(domain.ClassExpress, "Colombo", "Colombo", parcels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if draft.Phase != domain.PhaseParcelsSelected {
		t.Fatalf("phase = %q, want %q", draft.Phase, domain.PhaseParcelsSelected)
	}
	if draft.TotalWeightKg != 12 {
		t.Fatalf("weight = %v, want 12", draft.TotalWeightKg)
	}
	if !almostEqual(draft.TotalVolumeM3, 0.12) {
		t.Fatalf("volume = %v, want 0.12", draft.TotalVolumeM3)
	}
	if len(draft.Destinations) != 2 || draft.Destinations[0] != "Galle" || draft.Destinations[1] != "Kandy" {
		t.Fatalf("destinations = %v, want [Galle Kandy]", draft.Destinations)
	}
	if draft.DraftID == "" {
		t.Fatal("expected a draft id")
	}
	if len(draft.Route) != 0 || len(draft.ArrivalTimes) != 0 {
		t.Fatal("route and arrival times must stay empty until sequencing")
	}
}

func TestBuildBatchEmptySelection(t *testing.T) {
	if _, err := BuildBatch(domain.ClassExpress, "Colombo", "Colombo", nil); !errors.Is(err, domain.ErrNotReadyForCreation) {
		t.Fatalf("err = %v, want ErrNotReadyForCreation", err)
	}
}

func TestBuildBatchClassMismatch(t *testing.T) {
	parcels := []*domain.Parcel{
		poolParcel(1, "Kandy", "small", domain.ClassExpress),
		poolParcel(2, "Kandy", "small", domain.ClassStandard),
		poolParcel(3, "Kandy", "small", domain.ClassStandard),
	}

	_, err := BuildBatch(domain.ClassExpress, "Colombo", "Colombo", parcels)
	var mismatch *domain.ClassMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want ClassMismatchError", err)
	}
	if mismatch.Got != domain.ClassStandard || mismatch.Count != 2 {
		t.Fatalf("mismatch = %+v, want 2 standard parcels reported", mismatch)
	}
}

func TestBuildBatchWeightCeiling(t *testing.T) {
	// 101 large parcels put an express batch at 1010kg, over the 1000kg cap.
	parcels := make([]*domain.Parcel, 0, 101)
	for i := 0; i < 101; i++ {
		parcels = append(parcels, poolParcel(i+1, "Kandy", "large", domain.ClassExpress))
	}

	_, err := BuildBatch(domain.ClassExpress, "Colombo", "Colombo", parcels)
	var capacity *domain.CapacityExceededError
	if !errors.As(err, &capacity) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if capacity.Dimension != "weight" {
		t.Fatalf("dimension = %q, want weight", capacity.Dimension)
	}
}
