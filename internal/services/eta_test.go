package services

import (
	"errors"
	"testing"

	"shipment-consolidation-service/internal/domain"
)

func TestEstimateSmartETASingleExpressStop(t *testing.T) {
	parcels := []*domain.Parcel{poolParcel(1, "Kandy", "small", domain.ClassExpress)}
	draft, err := BuildBatch(domain.ClassExpress, "Colombo", "Colombo", parcels)
	if err != nil {
		t.Fatalf("build batch: %v", err)
	}
	g := testGraph()
	if err := SequenceRoute(g, draft, map[string]int{"Kandy": 1}); err != nil {
		t.Fatalf("sequence: %v", err)
	}

	if err := EstimateSmartETA(g, draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First buffer 2 + travel 3 + last buffer 2.
	if draft.TotalTimeHours != 7 {
		t.Fatalf("total = %v, want 7", draft.TotalTimeHours)
	}
	if len(draft.ArrivalTimes) != 1 {
		t.Fatalf("expected 1 stop, got %d", len(draft.ArrivalTimes))
	}
	stop := draft.ArrivalTimes[0]
	if stop.TravelHours != 3 || stop.BufferHours != 2 || stop.CumulativeHours != 7 {
		t.Fatalf("stop = %+v, want travel 3, buffer 2, cumulative 7", stop)
	}
	if draft.Phase != domain.PhaseETACalculated {
		t.Fatalf("phase = %q, want %q", draft.Phase, domain.PhaseETACalculated)
	}
}

func TestEstimateSmartETAMultiStop(t *testing.T) {
	draft := standardDraft(t, "Kandy", "Galle")
	g := testGraph()
	if err := SequenceRoute(g, draft, map[string]int{"Kandy": 1, "Galle": 2}); err != nil {
		t.Fatalf("sequence: %v", err)
	}

	if err := EstimateSmartETA(g, draft); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 (first) + 3 + 2 (intermediate) = 7 at Kandy, + 4 + 2 (last) = 13 at Galle.
	if draft.ArrivalTimes[0].CumulativeHours != 7 {
		t.Fatalf("Kandy cumulative = %v, want 7", draft.ArrivalTimes[0].CumulativeHours)
	}
	if draft.ArrivalTimes[1].CumulativeHours != 13 {
		t.Fatalf("Galle cumulative = %v, want 13", draft.ArrivalTimes[1].CumulativeHours)
	}
	if draft.TotalTimeHours != 13 {
		t.Fatalf("total = %v, want 13", draft.TotalTimeHours)
	}

	for i := 1; i < len(draft.ArrivalTimes); i++ {
		if draft.ArrivalTimes[i].CumulativeHours <= draft.ArrivalTimes[i-1].CumulativeHours {
			t.Fatal("cumulative hours must be strictly increasing")
		}
	}
}

func TestEstimateSmartETARequiresRoute(t *testing.T) {
	draft := standardDraft(t, "Kandy")

	err := EstimateSmartETA(testGraph(), draft)
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestEstimateSmartETATimeCeiling(t *testing.T) {
	draft := &domain.ShipmentDraft{
		DeliveryClass: domain.ClassExpress,
		Source:        "Colombo",
		Route:         []string{"Jaffna"},
		Phase:         domain.PhaseRouteCalculated,
	}

	// 2 + 25 + 2 = 29h, over the express 24h ceiling.
	err := EstimateSmartETA(testGraph(), draft)
	var capacity *domain.CapacityExceededError
	if !errors.As(err, &capacity) {
		t.Fatalf("err = %v, want CapacityExceededError", err)
	}
	if capacity.Dimension != "time" || capacity.Limit != 24 {
		t.Fatalf("capacity = %+v, want time limit 24", capacity)
	}
}

func TestEstimateSimpleETA(t *testing.T) {
	draft := standardDraft(t, "Kandy", "Galle", "Negombo")
	g := testGraph()
	if err := AutoRoute(g, draft); err != nil {
		t.Fatalf("route: %v", err)
	}

	if err := EstimateSimpleETA(draft, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{3, 6, 9}
	for i, w := range want {
		if draft.ArrivalTimes[i].CumulativeHours != w {
			t.Fatalf("stop %d cumulative = %v, want %v", i, draft.ArrivalTimes[i].CumulativeHours, w)
		}
	}
	if draft.TotalTimeHours != 9 {
		t.Fatalf("total = %v, want 9", draft.TotalTimeHours)
	}
}

func TestEstimateSimpleETAInvalidDuration(t *testing.T) {
	draft := standardDraft(t, "Kandy")
	if err := SequenceRoute(testGraph(), draft, map[string]int{"Kandy": 1}); err != nil {
		t.Fatalf("sequence: %v", err)
	}

	for _, hours := range []float64{0, -4} {
		if err := EstimateSimpleETA(draft, hours); !errors.Is(err, domain.ErrInvalidDuration) {
			t.Fatalf("hours %v: err = %v, want ErrInvalidDuration", hours, err)
		}
	}
}
