package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shipment-consolidation-service/internal/adapters/repositories/memory"
	"shipment-consolidation-service/internal/domain"
)

func newAllocationService() (*AllocationService, *memory.VehicleRepository, *memory.ParcelRepository, *memory.ShipmentRepository) {
	vehicles := memory.NewVehicleRepository()
	parcels := memory.NewParcelRepository()
	shipments := memory.NewShipmentRepository()
	svc := &AllocationService{
		Vehicles:  vehicles,
		Parcels:   parcels,
		Shipments: shipments,
		Sessions:  memory.NewSessionStore(),
		Geo:       testGraph(),
	}
	return svc, vehicles, parcels, shipments
}

func verifiedShipment(t *testing.T, shipments *memory.ShipmentRepository, id string) *domain.Shipment {
	t.Helper()
	s := &domain.Shipment{
		ShipmentID:      id,
		DeliveryClass:   domain.ClassExpress,
		Source:          "Colombo",
		Route:           []string{"Kandy"},
		TotalWeightKg:   4,
		TotalVolumeM3:   0.04,
		ParcelCount:     2,
		Status:          domain.StatusVerified,
		Confirmed:       true,
		CreatedByCenter: "Colombo",
	}
	if err := shipments.Create(context.Background(), s); err != nil {
		t.Fatalf("create shipment: %v", err)
	}
	return s
}

func testVehicle(id, location string) *domain.Vehicle {
	return &domain.Vehicle{
		VehicleID:       id,
		VehicleType:     "light_truck",
		MaxWeightKg:     1200,
		MaxVolumeM3:     6,
		CurrentLocation: location,
		HomeLocation:    location,
		DriverName:      "driver-" + id,
	}
}

func TestFindVehicleAtSource(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-002", "Kandy"), testVehicle("LT-001", "Colombo"))
	ctx := context.Background()

	session, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.State != domain.AllocFoundAtSource {
		t.Fatalf("state = %q, want %q", session.State, domain.AllocFoundAtSource)
	}
	if session.Vehicle.VehicleID != "LT-001" || !session.Vehicle.IsAtSource {
		t.Fatalf("vehicle = %+v, want LT-001 at source", session.Vehicle)
	}

	// Searching again against the unchanged fleet finds the same vehicle.
	again, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("second search: %v", err)
	}
	if again.Vehicle.VehicleID != "LT-001" {
		t.Fatalf("second search found %q, want LT-001", again.Vehicle.VehicleID)
	}
}

func TestFindVehicleElsewhere(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-002", "Kandy"), testVehicle("HT-001", "Galle"))

	session, err := svc.FindVehicle(context.Background(), "ship-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.State != domain.AllocFoundElsewhere {
		t.Fatalf("state = %q, want %q", session.State, domain.AllocFoundElsewhere)
	}
	// Kandy is 120km from Colombo, Galle 125km.
	if session.Vehicle.VehicleID != "LT-002" {
		t.Fatalf("vehicle = %q, want the nearer LT-002", session.Vehicle.VehicleID)
	}
	if session.Vehicle.DistanceKm != 120 || session.Vehicle.EstimatedTimeHours != 3 {
		t.Fatalf("relocation leg = %v km / %v h, want 120 / 3", session.Vehicle.DistanceKm, session.Vehicle.EstimatedTimeHours)
	}
}

func TestFindVehicleNoneAvailable(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")

	// The only vehicle cannot carry the load.
	tiny := testVehicle("VN-001", "Colombo")
	tiny.MaxWeightKg = 1
	vehicles.Add(tiny)

	if _, err := svc.FindVehicle(context.Background(), "ship-1"); !errors.Is(err, domain.ErrNoVehicleAvailable) {
		t.Fatalf("err = %v, want ErrNoVehicleAvailable", err)
	}
}

func TestFindVehicleRequiresVerifiedShipment(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	s := verifiedShipment(t, shipments, "ship-1")
	s.Status = domain.StatusPending
	s.Confirmed = false
	if err := shipments.Delete(context.Background(), "ship-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := shipments.Create(context.Background(), s); err != nil {
		t.Fatalf("reset: %v", err)
	}
	vehicles.Add(testVehicle("LT-001", "Colombo"))

	if _, err := svc.FindVehicle(context.Background(), "ship-1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestReverseShipmentFlow(t *testing.T) {
	svc, vehicles, parcels, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-002", "Kandy"))

	// Pool at the vehicle's branch: two express parcels to Colombo, one of
	// another class and one to a different destination.
	toColombo1 := poolParcel(10, "Colombo", "small", domain.ClassExpress)
	toColombo1.Origin = "Kandy"
	toColombo2 := poolParcel(11, "Colombo", "medium", domain.ClassExpress)
	toColombo2.Origin = "Kandy"
	wrongClass := poolParcel(12, "Colombo", "small", domain.ClassStandard)
	wrongClass.Origin = "Kandy"
	wrongDest := poolParcel(13, "Galle", "small", domain.ClassExpress)
	wrongDest.Origin = "Kandy"
	parcels.Add(toColombo1, toColombo2, wrongClass, wrongDest)

	ctx := context.Background()
	session, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}

	session, err = svc.FindReverseParcels(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("find reverse parcels: %v", err)
	}
	if session.State != domain.AllocReverseFound {
		t.Fatalf("state = %q, want %q", session.State, domain.AllocReverseFound)
	}
	if len(session.ReverseCandidates) != 2 {
		t.Fatalf("candidates = %v, want parcels 10 and 11", session.ReverseCandidates)
	}
	if session.ReverseSummary.Count != 2 || session.ReverseSummary.TotalWeightKg != 7 {
		t.Fatalf("summary = %+v, want 2 parcels / 7kg", session.ReverseSummary)
	}
	if session.ReverseSummary.DistanceKm != 120 {
		t.Fatalf("reverse distance = %v, want 120", session.ReverseSummary.DistanceKm)
	}

	session, err = svc.ConfirmReverseSelection(ctx, session.SessionID, []int{10, 11})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if session.State != domain.AllocReverseConfirmed {
		t.Fatalf("state = %q, want %q", session.State, domain.AllocReverseConfirmed)
	}

	reverse, err := svc.CreateReverseShipment(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("create reverse: %v", err)
	}
	if reverse.Source != "Kandy" || len(reverse.Route) != 1 || reverse.Route[0] != "Colombo" {
		t.Fatalf("reverse route = %s -> %v, want Kandy -> [Colombo]", reverse.Source, reverse.Route)
	}
	if reverse.ReverseOf != "ship-1" {
		t.Fatalf("reverse of = %q, want ship-1", reverse.ReverseOf)
	}
	if reverse.VehicleID != "LT-002" {
		t.Fatalf("reverse vehicle = %q, want LT-002", reverse.VehicleID)
	}

	result, err := svc.Assign(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if result.Vehicle.VehicleID != "LT-002" || result.ReverseShipmentID != reverse.ShipmentID {
		t.Fatalf("result = %+v, want LT-002 with the reverse shipment linked", result)
	}

	updated, err := shipments.Find(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if updated.Status != domain.StatusVehicleAssigned || updated.VehicleID != "LT-002" {
		t.Fatalf("shipment = %q vehicle=%q, want vehicle_assigned LT-002", updated.Status, updated.VehicleID)
	}

	vehicle, err := vehicles.Find(ctx, "LT-002")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}
	if vehicle.AssignedShipmentID != "ship-1" {
		t.Fatalf("vehicle assignment = %q, want ship-1", vehicle.AssignedShipmentID)
	}

	if _, err := svc.Sessions.GetAllocation(ctx, session.SessionID); !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("err = %v, want session deleted after assign", err)
	}
}

func TestAssignAfterEmptyReverseSelection(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-002", "Kandy"))
	ctx := context.Background()

	session, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}

	// Assign before the reverse decision is refused.
	if _, err := svc.Assign(ctx, session.SessionID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	// An empty selection relocates the vehicle empty.
	session, err = svc.ConfirmReverseSelection(ctx, session.SessionID, nil)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if session.State != domain.AllocNoReverseNeeded {
		t.Fatalf("state = %q, want %q", session.State, domain.AllocNoReverseNeeded)
	}

	result, err := svc.Assign(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if result.ReverseShipmentID != "" {
		t.Fatalf("reverse shipment = %q, want none", result.ReverseShipmentID)
	}
}

func TestCreateReverseWithoutSelectionFails(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-002", "Kandy"))
	ctx := context.Background()

	session, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}
	session, err = svc.ConfirmReverseSelection(ctx, session.SessionID, nil)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svc.CreateReverseShipment(ctx, session.SessionID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestConfirmReverseRejectsNonCandidates(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-002", "Kandy"))
	ctx := context.Background()

	session, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}
	session, err = svc.FindReverseParcels(ctx, session.SessionID)
	if err != nil {
		t.Fatalf("find reverse parcels: %v", err)
	}

	if _, err := svc.ConfirmReverseSelection(ctx, session.SessionID, []int{999}); err == nil {
		t.Fatal("expected error for a parcel outside the candidate set")
	}
}

func TestConcurrentAssignOneWinner(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	verifiedShipment(t, shipments, "ship-2")
	vehicles.Add(testVehicle("LT-001", "Colombo"))
	ctx := context.Background()

	first, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}
	second, err := svc.FindVehicle(ctx, "ship-2")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}
	if first.Vehicle.VehicleID != second.Vehicle.VehicleID {
		t.Fatalf("searches found %q and %q, want the same vehicle", first.Vehicle.VehicleID, second.Vehicle.VehicleID)
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, id := range []string{first.SessionID, second.SessionID} {
		wg.Add(1)
		go func(i int, sessionID string) {
			defer wg.Done()
			_, errs[i] = svc.Assign(ctx, sessionID)
		}(i, id)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, domain.ErrVehicleTaken):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != 1 {
		t.Fatalf("won=%d lost=%d, want exactly one winner and one ErrVehicleTaken", won, lost)
	}
}

func TestAbortAllocation(t *testing.T) {
	svc, vehicles, _, shipments := newAllocationService()
	verifiedShipment(t, shipments, "ship-1")
	vehicles.Add(testVehicle("LT-001", "Colombo"))
	ctx := context.Background()

	session, err := svc.FindVehicle(ctx, "ship-1")
	if err != nil {
		t.Fatalf("find vehicle: %v", err)
	}
	if err := svc.Abort(ctx, session.SessionID); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if _, err := svc.Sessions.GetAllocation(ctx, session.SessionID); !errors.Is(err, domain.ErrUnknownSession) {
		t.Fatalf("err = %v, want ErrUnknownSession", err)
	}

	// Nothing was reserved; the vehicle is still free.
	free, err := vehicles.ListFree(ctx)
	if err != nil {
		t.Fatalf("list free: %v", err)
	}
	if len(free) != 1 {
		t.Fatalf("free vehicles = %d, want 1", len(free))
	}
}
