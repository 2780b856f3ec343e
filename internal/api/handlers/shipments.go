package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"shipment-consolidation-service/internal/api/dto"
	"shipment-consolidation-service/internal/domain"
	"shipment-consolidation-service/internal/services"
)

// ShipmentHandler drives the draft wizard and the shipment lifecycle.
type ShipmentHandler struct {
	Service *services.ShipmentService
}

// StartDraft batches selected parcels into a new draft session.
func (h *ShipmentHandler) StartDraft(w http.ResponseWriter, r *http.Request) {
	var req dto.StartDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	class, err := domain.ParseDeliveryClass(req.DeliveryClass)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := h.Service.StartDraft(r.Context(), class, req.Source, req.CreatedBy, req.ParcelIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, draftResponse(draft))
}

// SetRoute finalizes the draft's stop order from operator-supplied ranks.
func (h *ShipmentHandler) SetRoute(w http.ResponseWriter, r *http.Request) {
	var req dto.SetRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draft, err := h.Service.SetRoute(r.Context(), mux.Vars(r)["draft"], req.Ranks)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, draftResponse(draft))
}

// SetETA computes arrival times under the requested policy.
func (h *ShipmentHandler) SetETA(w http.ResponseWriter, r *http.Request) {
	var req dto.SetETARequest
	if !decodeJSON(w, r, &req) {
		return
	}

	draftID := mux.Vars(r)["draft"]

	var draft *domain.ShipmentDraft
	var err error
	switch req.Policy {
	case "smart":
		draft, err = h.Service.SetSmartETA(r.Context(), draftID)
	case "simple":
		draft, err = h.Service.SetSimpleETA(r.Context(), draftID, req.TotalHours)
	default:
		writeError(w, r, http.StatusBadRequest, "policy must be \"smart\" or \"simple\"")
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, draftResponse(draft))
}

// AbandonDraft drops a draft session without side effects.
func (h *ShipmentHandler) AbandonDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Abandon(r.Context(), mux.Vars(r)["draft"]); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Create persists a fully prepared draft as a pending shipment.
func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateShipmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	shipment, err := h.Service.CreateShipment(r.Context(), req.DraftID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, shipmentResponse(shipment))
}

// AutoCreate runs batch, automatic routing and smart ETA in one call.
func (h *ShipmentHandler) AutoCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.AutoCreateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	class, err := domain.ParseDeliveryClass(req.DeliveryClass)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	shipment, err := h.Service.AutoCreate(r.Context(), class, req.Source, req.CreatedBy, req.ParcelIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, shipmentResponse(shipment))
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	shipment, err := h.Service.Shipments.Find(r.Context(), mux.Vars(r)["shipment"])
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, shipmentResponse(shipment))
}

func (h *ShipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	branch := r.URL.Query().Get("branch")
	if branch == "" {
		writeError(w, r, http.StatusBadRequest, "branch query parameter is required")
		return
	}

	shipments, err := h.Service.Shipments.List(r.Context(), branch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	res := dto.ListShipmentsResponse{Shipments: make([]dto.ShipmentResponse, 0, len(shipments))}
	for _, s := range shipments {
		res.Shipments = append(res.Shipments, shipmentResponse(s))
	}
	writeJSON(w, r, http.StatusOK, res)
}

// Verify confirms a pending shipment.
func (h *ShipmentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Verify(r.Context(), mux.Vars(r)["shipment"]); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": string(domain.StatusVerified)})
}

// Delete removes an undispatched shipment and returns its parcels to the pool.
func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["shipment"]); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyBulk verifies a batch, reporting per-item outcomes.
func (h *ShipmentHandler) VerifyBulk(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.Service.VerifyBulk(r.Context(), req.ShipmentIDs))
}

// DeleteBulk deletes a batch, reporting per-item outcomes.
func (h *ShipmentHandler) DeleteBulk(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, r, http.StatusOK, h.Service.DeleteBulk(r.Context(), req.ShipmentIDs))
}

func draftResponse(d *domain.ShipmentDraft) dto.DraftResponse {
	return dto.DraftResponse{
		DraftID:         d.DraftID,
		DeliveryClass:   string(d.DeliveryClass),
		Source:          d.Source,
		Phase:           string(d.Phase),
		Destinations:    d.Destinations,
		ParcelCount:     len(d.Parcels),
		TotalWeightKg:   d.TotalWeightKg,
		TotalVolumeM3:   d.TotalVolumeM3,
		Route:           d.Route,
		TotalDistanceKm: d.TotalDistanceKm,
		ArrivalTimes:    stopResponses(d.ArrivalTimes),
		TotalTimeHours:  d.TotalTimeHours,
	}
}

func shipmentResponse(s *domain.Shipment) dto.ShipmentResponse {
	return dto.ShipmentResponse{
		ShipmentID:      s.ShipmentID,
		DeliveryClass:   string(s.DeliveryClass),
		Source:          s.Source,
		Route:           s.Route,
		ArrivalTimes:    stopResponses(s.ArrivalTimes),
		TotalDistanceKm: s.TotalDistanceKm,
		TotalTimeHours:  s.TotalTimeHours,
		TotalWeightKg:   s.TotalWeightKg,
		TotalVolumeM3:   s.TotalVolumeM3,
		ParcelCount:     s.ParcelCount,
		ParcelIDs:       s.ParcelIDs,
		Status:          string(s.Status),
		Confirmed:       s.Confirmed,
		CreatedByCenter: s.CreatedByCenter,
		VehicleID:       s.VehicleID,
		DriverName:      s.DriverName,
		ReverseOf:       s.ReverseOf,
		CreatedAt:       s.CreatedAt,
	}
}

func stopResponses(stops []domain.StopETA) []dto.StopETAResponse {
	out := make([]dto.StopETAResponse, 0, len(stops))
	for _, s := range stops {
		out = append(out, dto.StopETAResponse{
			Center:          s.Center,
			TravelHours:     s.TravelHours,
			BufferHours:     s.BufferHours,
			SegmentHours:    s.SegmentHours,
			CumulativeHours: s.CumulativeHours,
		})
	}
	return out
}
