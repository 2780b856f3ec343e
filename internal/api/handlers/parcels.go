package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"shipment-consolidation-service/internal/api/dto"
	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/ports"
	"shipment-consolidation-service/internal/services"
)

// ParcelHandler exposes the parcel pool of a branch.
type ParcelHandler struct {
	Parcels ports.ParcelRepository
}

// ListPool returns the unassigned parcels at a branch, optionally filtered by
// destination, size, item type and delivery class query parameters.
func (h *ParcelHandler) ListPool(w http.ResponseWriter, r *http.Request) {
	branch := mux.Vars(r)["branch"]

	q := r.URL.Query()
	filter := services.ParcelFilter{
		Destination:   q.Get("destination"),
		Size:          q.Get("size"),
		ItemType:      q.Get("item_type"),
		DeliveryClass: q.Get("delivery_class"),
	}

	parcels, err := services.ListPool(r.Context(), h.Parcels, branch, filter)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListParcelsResponse{Parcels: make([]dto.ParcelResponse, 0, len(parcels))}
	for _, p := range parcels {
		res.Parcels = append(res.Parcels, parcelResponse(p))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func parcelResponse(p *domain.Parcel) dto.ParcelResponse {
	return dto.ParcelResponse{
		ParcelID:      p.ParcelID,
		Origin:        p.Origin,
		Destination:   p.Destination,
		Size:          p.Size,
		ItemType:      p.ItemType,
		WeightKg:      p.WeightKg,
		VolumeM3:      p.VolumeM3,
		DeliveryClass: string(p.DeliveryClass),
		Status:        string(p.Status),
	}
}

// BranchHandler exposes branch reference data.
type BranchHandler struct {
	Branches ports.BranchRepository
}

func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.Branches.ListBranches(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListBranchesResponse{Branches: make([]dto.BranchResponse, 0, len(branches))}
	for _, b := range branches {
		res.Branches = append(res.Branches, dto.BranchResponse{BranchID: b.BranchID, Location: b.Location})
	}
	writeJSON(w, r, http.StatusOK, res)
}
