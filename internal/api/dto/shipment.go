package dto

import "time"

type StartDraftRequest struct {
	DeliveryClass string `json:"delivery_class"`
	Source        string `json:"source"`
	CreatedBy     string `json:"created_by"`
	ParcelIDs     []int  `json:"parcel_ids"`
}

type SetRouteRequest struct {
	// Ranks maps each destination branch to its 1-based visiting order.
	Ranks map[string]int `json:"ranks"`
}

type SetETARequest struct {
	// Policy is "smart" (travel + buffer tables) or "simple" (equal split
	// of TotalHours).
	Policy     string  `json:"policy"`
	TotalHours float64 `json:"total_hours,omitempty"`
}

type StopETAResponse struct {
	Center          string  `json:"center"`
	TravelHours     float64 `json:"travel_hours"`
	BufferHours     float64 `json:"buffer_hours"`
	SegmentHours    float64 `json:"segment_hours"`
	CumulativeHours float64 `json:"cumulative_hours"`
}

type DraftResponse struct {
	DraftID         string            `json:"draft_id"`
	DeliveryClass   string            `json:"delivery_class"`
	Source          string            `json:"source"`
	Phase           string            `json:"phase"`
	Destinations    []string          `json:"destinations"`
	ParcelCount     int               `json:"parcel_count"`
	TotalWeightKg   float64           `json:"total_weight_kg"`
	TotalVolumeM3   float64           `json:"total_volume_m3"`
	Route           []string          `json:"route,omitempty"`
	TotalDistanceKm float64           `json:"total_distance_km,omitempty"`
	ArrivalTimes    []StopETAResponse `json:"arrival_times,omitempty"`
	TotalTimeHours  float64           `json:"total_time_hours,omitempty"`
}

type CreateShipmentRequest struct {
	DraftID string `json:"draft_id"`
}

type AutoCreateRequest struct {
	DeliveryClass string `json:"delivery_class"`
	Source        string `json:"source"`
	CreatedBy     string `json:"created_by"`
	ParcelIDs     []int  `json:"parcel_ids"`
}

type ShipmentResponse struct {
	ShipmentID      string            `json:"shipment_id"`
	DeliveryClass   string            `json:"delivery_class"`
	Source          string            `json:"source"`
	Route           []string          `json:"route"`
	ArrivalTimes    []StopETAResponse `json:"arrival_times"`
	TotalDistanceKm float64           `json:"total_distance_km"`
	TotalTimeHours  float64           `json:"total_time_hours"`
	TotalWeightKg   float64           `json:"total_weight_kg"`
	TotalVolumeM3   float64           `json:"total_volume_m3"`
	ParcelCount     int               `json:"parcel_count"`
	ParcelIDs       []int             `json:"parcel_ids"`
	Status          string            `json:"status"`
	Confirmed       bool              `json:"confirmed"`
	CreatedByCenter string            `json:"created_by_center"`
	VehicleID       string            `json:"vehicle_id,omitempty"`
	DriverName      string            `json:"driver_name,omitempty"`
	ReverseOf       string            `json:"reverse_of,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

type ListShipmentsResponse struct {
	Shipments []ShipmentResponse `json:"shipments"`
}

type BulkRequest struct {
	ShipmentIDs []string `json:"shipment_ids"`
}
