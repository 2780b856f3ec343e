package domain

// Vehicle is a carrier available for shipment assignment. CurrentLocation is
// the branch it is parked at now; HomeLocation is the branch it belongs to.
// AssignedShipmentID is empty while the vehicle is free.
type Vehicle struct {
	VehicleID          string
	VehicleType        string
	MaxWeightKg        float64
	MaxVolumeM3        float64
	CurrentLocation    string
	HomeLocation       string
	DriverName         string
	AssignedShipmentID string
}

// CanCarry reports whether the vehicle has capacity for the given load.
func (v *Vehicle) CanCarry(weightKg, volumeM3 float64) bool {
	return weightKg <= v.MaxWeightKg && volumeM3 <= v.MaxVolumeM3
}
