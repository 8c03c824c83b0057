package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/service"
)

// DriverHandler exposes driver master-data CRUD.
type DriverHandler struct {
	drivers service.DriverService
	logger  *slog.Logger
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(drivers service.DriverService, logger *slog.Logger) *DriverHandler {
	return &DriverHandler{
		drivers: drivers,
		logger:  logger,
	}
}

// RegisterRoutes registers driver endpoints on the mux.
func (h *DriverHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/drivers", h.Create)
	mux.HandleFunc("GET /api/drivers", h.List)
	mux.HandleFunc("GET /api/drivers/{id}", h.Get)
	mux.HandleFunc("PUT /api/drivers/{id}", h.Update)
	mux.HandleFunc("DELETE /api/drivers/{id}", h.Delete)
}

// driverJSON is the wire form of a driver.
type driverJSON struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// createDriverRequest is the JSON body for registering a driver.
type createDriverRequest struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone"`
}

// updateDriverRequest is the JSON body for updating a driver.
type updateDriverRequest struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
	Phone         string `json:"phone"`
	Active        bool   `json:"active"`
}

// Create registers a new driver.
func (h *DriverHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDriverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	driver, err := h.drivers.Create(r.Context(), domain.CreateDriverParams{
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, driverToJSON(*driver))
}

// List returns all drivers.
func (h *DriverHandler) List(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.drivers.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]driverJSON, len(drivers))
	for i, d := range drivers {
		out[i] = driverToJSON(d)
	}
	respondJSON(w, http.StatusOK, out)
}

// Get returns one driver by ID.
func (h *DriverHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "driver")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	driver, err := h.drivers.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, driverToJSON(*driver))
}

// Update updates an existing driver.
func (h *DriverHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "driver")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req updateDriverRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	driver, err := h.drivers.Update(r.Context(), domain.UpdateDriverParams{
		ID:            id,
		Name:          req.Name,
		LicenseNumber: req.LicenseNumber,
		Phone:         req.Phone,
		Active:        req.Active,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, driverToJSON(*driver))
}

// Delete deletes a driver.
func (h *DriverHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "driver")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.drivers.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// driverToJSON converts a domain Driver to its wire form.
func driverToJSON(d domain.Driver) driverJSON {
	return driverJSON{
		ID:            d.ID,
		Name:          d.Name,
		LicenseNumber: d.LicenseNumber,
		Phone:         d.Phone,
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
