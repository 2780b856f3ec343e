package dto

type ParcelResponse struct {
	ParcelID      int     `json:"parcel_id"`
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	Size          string  `json:"size"`
	ItemType      string  `json:"item_type"`
	WeightKg      float64 `json:"weight_kg"`
	VolumeM3      float64 `json:"volume_m3"`
	DeliveryClass string  `json:"delivery_class"`
	Status        string  `json:"status"`
}

type ListParcelsResponse struct {
	Parcels []ParcelResponse `json:"parcels"`
}

type BranchResponse struct {
	BranchID int    `json:"branch_id"`
	Location string `json:"location"`
}

type ListBranchesResponse struct {
	Branches []BranchResponse `json:"branches"`
}
