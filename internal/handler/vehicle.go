package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/service"
)

// VehicleHandler exposes vehicle master-data CRUD.
type VehicleHandler struct {
	vehicles service.VehicleService
	logger   *slog.Logger
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicles service.VehicleService, logger *slog.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicles: vehicles,
		logger:   logger,
	}
}

// RegisterRoutes registers vehicle endpoints on the mux.
func (h *VehicleHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/vehicles", h.Create)
	mux.HandleFunc("GET /api/vehicles", h.List)
	mux.HandleFunc("GET /api/vehicles/{id}", h.Get)
	mux.HandleFunc("GET /api/vehicles/by-plate/{plate}", h.GetByPlate)
	mux.HandleFunc("PUT /api/vehicles/{id}", h.Update)
	mux.HandleFunc("DELETE /api/vehicles/{id}", h.Delete)
}

// vehicleJSON is the wire form of a vehicle.
type vehicleJSON struct {
	ID           uuid.UUID `json:"id"`
	PlateNumber  string    `json:"plate_number"`
	Description  string    `json:"description,omitempty"`
	TareWeightKg *float64  `json:"tare_weight_kg,omitempty"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// createVehicleRequest is the JSON body for registering a vehicle.
type createVehicleRequest struct {
	PlateNumber  string   `json:"plate_number"`
	Description  string   `json:"description"`
	TareWeightKg *float64 `json:"tare_weight_kg"`
}

// updateVehicleRequest is the JSON body for updating a vehicle.
type updateVehicleRequest struct {
	PlateNumber  string   `json:"plate_number"`
	Description  string   `json:"description"`
	TareWeightKg *float64 `json:"tare_weight_kg"`
	Active       bool     `json:"active"`
}

// Create registers a new vehicle.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createVehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicles.Create(r.Context(), domain.CreateVehicleParams{
		PlateNumber:  req.PlateNumber,
		Description:  req.Description,
		TareWeightKg: req.TareWeightKg,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, vehicleToJSON(*vehicle))
}

// List returns all vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicles.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]vehicleJSON, len(vehicles))
	for i, v := range vehicles {
		out[i] = vehicleToJSON(v)
	}
	respondJSON(w, http.StatusOK, out)
}

// Get returns one vehicle by ID.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "vehicle")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicles.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicleToJSON(*vehicle))
}

// GetByPlate returns one vehicle by plate number. The console uses this to
// pre-fill the weigh-in form when the operator types a plate.
func (h *VehicleHandler) GetByPlate(w http.ResponseWriter, r *http.Request) {
	plate := r.PathValue("plate")

	vehicle, err := h.vehicles.GetByPlate(r.Context(), plate)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicleToJSON(*vehicle))
}

// Update updates an existing vehicle.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "vehicle")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req updateVehicleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	vehicle, err := h.vehicles.Update(r.Context(), domain.UpdateVehicleParams{
		ID:           id,
		PlateNumber:  req.PlateNumber,
		Description:  req.Description,
		TareWeightKg: req.TareWeightKg,
		Active:       req.Active,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicleToJSON(*vehicle))
}

// Delete deletes a vehicle.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "vehicle")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.vehicles.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// vehicleToJSON converts a domain Vehicle to its wire form.
func vehicleToJSON(v domain.Vehicle) vehicleJSON {
	return vehicleJSON{
		ID:           v.ID,
		PlateNumber:  v.PlateNumber,
		Description:  v.Description,
		TareWeightKg: v.TareWeightKg,
		Active:       v.Active,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
