package domain

// ParcelStatus tracks a parcel's position in its own lifecycle.
type ParcelStatus string

const (
	ParcelRegistered ParcelStatus = "registered"
	ParcelAssigned   ParcelStatus = "assigned"
	ParcelDelivered  ParcelStatus = "delivered"
)

// ParcelSize maps a declared size class to its billed weight and volume.
type ParcelSize struct {
	WeightKg float64
	VolumeM3 float64
}

// Declared size classes. A parcel's weight and volume derive from its size at
// registration time, not from a scale.
var ParcelSizes = map[string]ParcelSize{
	"small":  {WeightKg: 2, VolumeM3: 0.02},
	"medium": {WeightKg: 5, VolumeM3: 0.05},
	"large":  {WeightKg: 10, VolumeM3: 0.1},
}

// Parcel is a single delivery unit. It belongs to the pool of its origin
// branch until a shipment takes ownership of it.
type Parcel struct {
	ParcelID      int
	Origin        string
	Destination   string
	Size          string
	ItemType      string
	WeightKg      float64
	VolumeM3      float64
	DeliveryClass DeliveryClass
	Status        ParcelStatus
	ShipmentID    string
}

// ParcelRef is the serializable snapshot of a parcel carried inside drafts and
// allocation sessions.
type ParcelRef struct {
	ParcelID    int     `json:"parcel_id"`
	Destination string  `json:"destination"`
	WeightKg    float64 `json:"weight_kg"`
	VolumeM3    float64 `json:"volume_m3"`
}

// Ref returns the session snapshot for the parcel.
func (p *Parcel) Ref() ParcelRef {
	return ParcelRef{
		ParcelID:    p.ParcelID,
		Destination: p.Destination,
		WeightKg:    p.WeightKg,
		VolumeM3:    p.VolumeM3,
	}
}
