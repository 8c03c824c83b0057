package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/service"
)

// PartnerHandler exposes partner master-data CRUD.
type PartnerHandler struct {
	partners service.PartnerService
	logger   *slog.Logger
}

// NewPartnerHandler creates a new PartnerHandler.
func NewPartnerHandler(partners service.PartnerService, logger *slog.Logger) *PartnerHandler {
	return &PartnerHandler{
		partners: partners,
		logger:   logger,
	}
}

// RegisterRoutes registers partner endpoints on the mux.
func (h *PartnerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/partners", h.Create)
	mux.HandleFunc("GET /api/partners", h.List)
	mux.HandleFunc("GET /api/partners/{id}", h.Get)
	mux.HandleFunc("PUT /api/partners/{id}", h.Update)
	mux.HandleFunc("DELETE /api/partners/{id}", h.Delete)
}

// partnerJSON is the wire form of a partner.
type partnerJSON struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	TaxID     string    `json:"tax_id,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// createPartnerRequest is the JSON body for registering a partner.
type createPartnerRequest struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	TaxID string `json:"tax_id"`
}

// updatePartnerRequest is the JSON body for updating a partner.
type updatePartnerRequest struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	TaxID  string `json:"tax_id"`
	Active bool   `json:"active"`
}

// Create registers a new partner.
func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	partner, err := h.partners.Create(r.Context(), domain.CreatePartnerParams{
		Name:  req.Name,
		Kind:  domain.PartnerKind(req.Kind),
		TaxID: req.TaxID,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, partnerToJSON(*partner))
}

// List returns all partners.
func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partners.List(r.Context())
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := make([]partnerJSON, len(partners))
	for i, p := range partners {
		out[i] = partnerToJSON(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// Get returns one partner by ID.
func (h *PartnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "partner")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	partner, err := h.partners.GetByID(r.Context(), id)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, partnerToJSON(*partner))
}

// Update updates an existing partner.
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "partner")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	var req updatePartnerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	partner, err := h.partners.Update(r.Context(), domain.UpdatePartnerParams{
		ID:     id,
		Name:   req.Name,
		Kind:   domain.PartnerKind(req.Kind),
		TaxID:  req.TaxID,
		Active: req.Active,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, partnerToJSON(*partner))
}

// Delete deletes a partner.
func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id", "partner")
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.partners.Delete(r.Context(), id); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// partnerToJSON converts a domain Partner to its wire form.
func partnerToJSON(p domain.Partner) partnerJSON {
	return partnerJSON{
		ID:        p.ID,
		Name:      p.Name,
		Kind:      string(p.Kind),
		TaxID:     p.TaxID,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
