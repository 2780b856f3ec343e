package dto

type VehicleResponse struct {
	VehicleID          string  `json:"vehicle_id"`
	VehicleType        string  `json:"vehicle_type"`
	MaxWeightKg        float64 `json:"max_weight_kg"`
	MaxVolumeM3        float64 `json:"max_volume_m3"`
	CurrentLocation    string  `json:"current_location"`
	HomeLocation       string  `json:"home_location"`
	DriverName         string  `json:"driver_name,omitempty"`
	IsAtSource         bool    `json:"is_at_source"`
	DistanceKm         float64 `json:"distance_km,omitempty"`
	EstimatedTimeHours float64 `json:"estimated_time_hours,omitempty"`
}

type ReverseSummaryResponse struct {
	Count         int     `json:"count"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	TotalVolumeM3 float64 `json:"total_volume_m3"`
	DistanceKm    float64 `json:"distance_km"`
}

type ReverseParcelResponse struct {
	ParcelID    int     `json:"parcel_id"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
	VolumeM3    float64 `json:"volume_m3"`
}

type AllocationResponse struct {
	SessionID         string                  `json:"session_id"`
	ShipmentID        string                  `json:"shipment_id"`
	State             string                  `json:"state"`
	Vehicle           VehicleResponse         `json:"vehicle"`
	ReverseCandidates []ReverseParcelResponse `json:"reverse_candidates,omitempty"`
	ReverseSummary    *ReverseSummaryResponse `json:"reverse_summary,omitempty"`
	ReverseShipmentID string                  `json:"reverse_shipment_id,omitempty"`
}

type ConfirmReverseRequest struct {
	ParcelIDs []int `json:"parcel_ids"`
}

type AssignmentResponse struct {
	ShipmentID        string          `json:"shipment_id"`
	Vehicle           VehicleResponse `json:"vehicle"`
	ReverseShipmentID string          `json:"reverse_shipment_id,omitempty"`
}
