package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"shipment-consolidation-service/internal/api/handlers"
	"shipment-consolidation-service/internal/platform/obs"
	"shipment-consolidation-service/internal/ports"
	"shipment-consolidation-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	parcels ports.ParcelRepository,
	branches ports.BranchRepository,
	shipments *services.ShipmentService,
	allocations *services.AllocationService,
	metrics *obs.Metrics,
) http.Handler {
	r := mux.NewRouter()
	r.Use(metricsMiddleware(metrics))

	parcelHandler := &handlers.ParcelHandler{Parcels: parcels}
	branchHandler := &handlers.BranchHandler{Branches: branches}
	shipmentHandler := &handlers.ShipmentHandler{Service: shipments}
	allocationHandler := &handlers.AllocationHandler{Service: allocations}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/branches", branchHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/branches/{branch}/parcels", parcelHandler.ListPool).Methods(http.MethodGet)

	// Draft wizard: batch parcels, fix the stop order, compute arrival times.
	r.HandleFunc("/drafts", shipmentHandler.StartDraft).Methods(http.MethodPost)
	r.HandleFunc("/drafts/{draft}/route", shipmentHandler.SetRoute).Methods(http.MethodPut)
	r.HandleFunc("/drafts/{draft}/eta", shipmentHandler.SetETA).Methods(http.MethodPut)
	r.HandleFunc("/drafts/{draft}", shipmentHandler.AbandonDraft).Methods(http.MethodDelete)

	// Bulk routes are registered before the {shipment} variable routes so the
	// literal "bulk" segment never binds as an id.
	r.HandleFunc("/shipments/bulk/verify", shipmentHandler.VerifyBulk).Methods(http.MethodPost)
	r.HandleFunc("/shipments/bulk/delete", shipmentHandler.DeleteBulk).Methods(http.MethodPost)
	r.HandleFunc("/shipments/auto", shipmentHandler.AutoCreate).Methods(http.MethodPost)
	r.HandleFunc("/shipments", shipmentHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/shipments", shipmentHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/shipments/{shipment}", shipmentHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/shipments/{shipment}", shipmentHandler.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/shipments/{shipment}/verify", shipmentHandler.Verify).Methods(http.MethodPost)

	// Allocation wizard: find a vehicle, pick reverse parcels, assign.
	r.HandleFunc("/shipments/{shipment}/allocations", allocationHandler.FindVehicle).Methods(http.MethodPost)
	r.HandleFunc("/allocations/{session}/reverse-candidates", allocationHandler.FindReverseParcels).Methods(http.MethodPost)
	r.HandleFunc("/allocations/{session}/reverse-selection", allocationHandler.ConfirmReverse).Methods(http.MethodPut)
	r.HandleFunc("/allocations/{session}/reverse-shipment", allocationHandler.CreateReverse).Methods(http.MethodPost)
	r.HandleFunc("/allocations/{session}/assign", allocationHandler.Assign).Methods(http.MethodPost)
	r.HandleFunc("/allocations/{session}", allocationHandler.Abort).Methods(http.MethodDelete)

	return loggingMiddleware(r)
}
