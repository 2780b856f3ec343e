package domain

import "testing"

func TestParseDeliveryClass(t *testing.T) {
	cases := []struct {
		in   string
		want DeliveryClass
		ok   bool
	}{
		{"standard", ClassStandard, true},
		{"Express", ClassExpress, true},
		{"  EXPRESS  ", ClassExpress, true},
		{"overnight", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		got, err := ParseDeliveryClass(c.in)
		if c.ok && (err != nil || got != c.want) {
			t.Fatalf("ParseDeliveryClass(%q) = %q, %v, want %q", c.in, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Fatalf("ParseDeliveryClass(%q) succeeded, want error", c.in)
		}
	}
}

func TestLimitsFor(t *testing.T) {
	std, err := LimitsFor(ClassStandard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if std.MaxWeightKg != 2500 || std.MaxDistanceKm != 300 {
		t.Fatalf("standard limits = %+v, want 2500kg / 300km", std)
	}

	exp, err := LimitsFor(ClassExpress)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.MaxWeightKg != 1000 || exp.MaxTimeHours != 24 {
		t.Fatalf("express limits = %+v, want 1000kg / 24h", exp)
	}

	if _, err := LimitsFor("overnight"); err == nil {
		t.Fatal("expected error for unknown class")
	}
}

func TestShipmentGuards(t *testing.T) {
	s := &Shipment{Status: StatusPending}
	if !s.CanVerify() || !s.CanDelete() || s.CanAssignVehicle() {
		t.Fatal("pending: want verify and delete allowed, assignment refused")
	}

	s.Status = StatusVerified
	s.Confirmed = true
	if s.CanVerify() || !s.CanDelete() || !s.CanAssignVehicle() {
		t.Fatal("verified: want delete and assignment allowed, re-verify refused")
	}

	s.Status = StatusVehicleAssigned
	if s.CanVerify() || s.CanDelete() || s.CanAssignVehicle() {
		t.Fatal("vehicle_assigned: want everything refused")
	}
}

func TestVehicleCanCarry(t *testing.T) {
	v := &Vehicle{MaxWeightKg: 100, MaxVolumeM3: 1}

	if !v.CanCarry(100, 1) {
		t.Fatal("load at exactly the limits must fit")
	}
	if v.CanCarry(101, 0.5) {
		t.Fatal("overweight load must not fit")
	}
	if v.CanCarry(50, 1.1) {
		t.Fatal("oversized load must not fit")
	}
}
