package geo

import (
	"errors"
	"testing"

	"shipment-consolidation-service/internal/domain"
)

func testGraph() *Graph {
	return New(Tables{
		DistancesKm: map[string]map[string]float64{
			"Colombo": {"Kandy": 120, "Galle": 125},
			"Kandy":   {"Colombo": 120, "Galle": 150},
		},
		TravelHours: map[string]map[string]float64{
			"Colombo": {"Kandy": 3},
			"Kandy":   {"Galle": 4},
		},
	})
}

func TestGraphDistance(t *testing.T) {
	g := testGraph()

	d, ok := g.Distance("Colombo", "Kandy")
	if !ok || d != 120 {
		t.Fatalf("Distance(Colombo,Kandy) = %v, %v, want 120, true", d, ok)
	}

	if _, ok := g.Distance("Colombo", "Jaffna"); ok {
		t.Fatal("expected unknown destination to miss")
	}
	if _, ok := g.Distance("Jaffna", "Colombo"); ok {
		t.Fatal("expected unknown origin to miss")
	}
}

func TestGraphRouteDistance(t *testing.T) {
	g := testGraph()

	total, err := g.RouteDistance("Colombo", []string{"Kandy", "Galle"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 270 {
		t.Fatalf("total = %v, want 270", total)
	}
}

func TestGraphRouteDistanceMissingLegFails(t *testing.T) {
	g := testGraph()

	_, err := g.RouteDistance("Colombo", []string{"Kandy", "Jaffna"})
	if !errors.Is(err, domain.ErrUnknownRoute) {
		t.Fatalf("err = %v, want ErrUnknownRoute", err)
	}
}

func TestGraphLegTravel(t *testing.T) {
	g := testGraph()

	hours, err := g.LegTravel("Colombo", "Kandy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hours != 3 {
		t.Fatalf("hours = %v, want 3", hours)
	}

	if _, err := g.LegTravel("Kandy", "Colombo"); !errors.Is(err, domain.ErrUnknownRoute) {
		t.Fatalf("err = %v, want ErrUnknownRoute", err)
	}
}
