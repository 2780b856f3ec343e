package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"shipment-consolidation-service/internal/api/dto"
	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/services"
)

// AllocationHandler drives the vehicle-allocation wizard.
type AllocationHandler struct {
	Service *services.AllocationService
}

// FindVehicle starts an allocation attempt for a verified shipment.
func (h *AllocationHandler) FindVehicle(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.FindVehicle(r.Context(), mux.Vars(r)["shipment"])
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, allocationResponse(session))
}

// FindReverseParcels lists pool parcels the found vehicle could carry while
// relocating to the shipment source.
func (h *AllocationHandler) FindReverseParcels(w http.ResponseWriter, r *http.Request) {
	session, err := h.Service.FindReverseParcels(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, allocationResponse(session))
}

// ConfirmReverse records the operator's parcel selection; an empty selection
// is the explicit decision to relocate the vehicle empty.
func (h *AllocationHandler) ConfirmReverse(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmReverseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.Service.ConfirmReverseSelection(r.Context(), mux.Vars(r)["session"], req.ParcelIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, allocationResponse(session))
}

// CreateReverse builds and persists the relocation shipment.
func (h *AllocationHandler) CreateReverse(w http.ResponseWriter, r *http.Request) {
	reverse, err := h.Service.CreateReverseShipment(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, shipmentResponse(reverse))
}

// Assign commits the found vehicle to the shipment.
func (h *AllocationHandler) Assign(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Assign(r.Context(), mux.Vars(r)["session"])
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.AssignmentResponse{
		ShipmentID:        result.ShipmentID,
		Vehicle:           vehicleResponse(result.Vehicle),
		ReverseShipmentID: result.ReverseShipmentID,
	})
}

// Abort abandons the allocation attempt.
func (h *AllocationHandler) Abort(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Abort(r.Context(), mux.Vars(r)["session"]); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func allocationResponse(a *domain.AllocationSession) dto.AllocationResponse {
	res := dto.AllocationResponse{
		SessionID:         a.SessionID,
		ShipmentID:        a.ShipmentID,
		State:             string(a.State),
		Vehicle:           vehicleResponse(a.Vehicle),
		ReverseShipmentID: a.ReverseShipmentID,
	}
	if a.State == domain.AllocReverseFound || len(a.ReverseCandidates) > 0 {
		res.ReverseCandidates = make([]dto.ReverseParcelResponse, 0, len(a.ReverseCandidates))
		for _, c := range a.ReverseCandidates {
			res.ReverseCandidates = append(res.ReverseCandidates, dto.ReverseParcelResponse{
				ParcelID:    c.ParcelID,
				Destination: c.Destination,
				WeightKg:    c.WeightKg,
				VolumeM3:    c.VolumeM3,
			})
		}
		res.ReverseSummary = &dto.ReverseSummaryResponse{
			Count:         a.ReverseSummary.Count,
			TotalWeightKg: a.ReverseSummary.TotalWeightKg,
			TotalVolumeM3: a.ReverseSummary.TotalVolumeM3,
			DistanceKm:    a.ReverseSummary.DistanceKm,
		}
	}
	return res
}

func vehicleResponse(v domain.VehicleCandidate) dto.VehicleResponse {
	return dto.VehicleResponse{
		VehicleID:          v.VehicleID,
		VehicleType:        v.VehicleType,
		MaxWeightKg:        v.MaxWeightKg,
		MaxVolumeM3:        v.MaxVolumeM3,
		CurrentLocation:    v.CurrentLocation,
		HomeLocation:       v.HomeLocation,
		DriverName:         v.DriverName,
		IsAtSource:         v.IsAtSource,
		DistanceKm:         v.DistanceKm,
		EstimatedTimeHours: v.EstimatedTimeHours,
	}
}
