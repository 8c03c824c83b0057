package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/service"
	"github.com/ironaxle/weighstation/internal/weighing"
)

// WeighingHandler exposes the weighing engine over the operator console API.
// All commands are POSTs against the single station engine; state is read via
// a snapshot endpoint or a server-sent event stream.
type WeighingHandler struct {
	engine       *weighing.Engine
	transactions service.TransactionService
	logger       *slog.Logger
}

// NewWeighingHandler creates a new WeighingHandler.
func NewWeighingHandler(engine *weighing.Engine, transactions service.TransactionService, logger *slog.Logger) *WeighingHandler {
	return &WeighingHandler{
		engine:       engine,
		transactions: transactions,
		logger:       logger,
	}
}

// RegisterRoutes registers weighing endpoints on the mux.
func (h *WeighingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/weighing/state", h.State)
	mux.HandleFunc("GET /api/weighing/events", h.Events)
	mux.HandleFunc("POST /api/weighing/weigh-in", h.StartWeighIn)
	mux.HandleFunc("POST /api/weighing/weigh-out", h.StartWeighOut)
	mux.HandleFunc("POST /api/weighing/capture", h.Capture)
	mux.HandleFunc("POST /api/weighing/cancel", h.Cancel)
	mux.HandleFunc("POST /api/weighing/acknowledge", h.Acknowledge)
	mux.HandleFunc("POST /api/weighing/clear-error", h.ClearError)
	mux.HandleFunc("POST /api/weighing/manual-mode", h.ManualMode)
	mux.HandleFunc("POST /api/weighing/manual-weight", h.ManualWeight)
}

// weighInRequest is the JSON body for starting a first weighing.
type weighInRequest struct {
	VehicleID uuid.UUID  `json:"vehicle_id"`
	DriverID  uuid.UUID  `json:"driver_id"`
	ProductID uuid.UUID  `json:"product_id"`
	PartnerID *uuid.UUID `json:"partner_id,omitempty"`
	Direction string     `json:"direction"`
}

// StartWeighIn begins a first-weighing session.
func (h *WeighingHandler) StartWeighIn(w http.ResponseWriter, r *http.Request) {
	var req weighInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	err := h.engine.StartWeighIn(domain.WeighInRequest{
		VehicleID: req.VehicleID,
		DriverID:  req.DriverID,
		ProductID: req.ProductID,
		PartnerID: req.PartnerID,
		Direction: domain.TransactionDirection(req.Direction),
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// weighOutRequest is the JSON body for resuming an open transaction.
type weighOutRequest struct {
	TicketNumber string `json:"ticket_number"`
}

// StartWeighOut begins a second-weighing session against an open transaction.
// The open record is loaded by ticket so the session carries the original
// direction, selections, and first weight.
func (h *WeighingHandler) StartWeighOut(w http.ResponseWriter, r *http.Request) {
	const op = "WeighingHandler.StartWeighOut"

	var req weighOutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if req.TicketNumber == "" {
		ErrorResponse(w, r, h.logger, domain.BusinessRule(op, "ticket number is required"))
		return
	}

	txn, err := h.transactions.GetByTicket(r.Context(), req.TicketNumber)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	if !txn.IsOpen() {
		ErrorResponse(w, r, h.logger,
			domain.BusinessRule(op, fmt.Sprintf("ticket %s is already completed", txn.TicketNumber)))
		return
	}

	err = h.engine.StartWeighOut(domain.WeighOutRequest{
		TicketNumber: txn.TicketNumber,
		FirstWeight:  txn.EntryWeightKg,
		Direction:    txn.Direction,
		VehicleID:    txn.VehicleID,
		DriverID:     txn.DriverID,
		ProductID:    txn.ProductID,
		PartnerID:    txn.PartnerID,
	})
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// captureResponse is the JSON result of a capture command.
type captureResponse struct {
	TicketNumber string              `json:"ticket_number"`
	Transaction  *completedTxnJSON   `json:"transaction,omitempty"`
	State        stationSnapshotJSON `json:"state"`
}

// Capture records the current weight for whichever weighing phase is active.
func (h *WeighingHandler) Capture(w http.ResponseWriter, r *http.Request) {
	const op = "WeighingHandler.Capture"

	switch h.engine.State().(type) {
	case domain.WeighingIn:
		ticket, err := h.engine.CaptureWeighIn(r.Context())
		if err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
		respondJSON(w, http.StatusOK, captureResponse{
			TicketNumber: ticket,
			State:        snapshotToJSON(h.engine.Snapshot()),
		})

	case domain.WeighingOut:
		txn, err := h.engine.CaptureWeighOut(r.Context())
		if err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
		completed := completedTxnToJSON(txn)
		respondJSON(w, http.StatusOK, captureResponse{
			TicketNumber: txn.TicketNumber,
			Transaction:  &completed,
			State:        snapshotToJSON(h.engine.Snapshot()),
		})

	default:
		ErrorResponse(w, r, h.logger, domain.BusinessRule(op, "no weighing in progress"))
	}
}

// Cancel aborts the current operation and returns the station to idle.
func (h *WeighingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.engine.CancelOperation()
	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// Acknowledge dismisses the completed-transaction display.
func (h *WeighingHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.engine.AcknowledgeCompletion()
	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// ClearError acknowledges a fault and restores the interrupted state.
func (h *WeighingHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.engine.ClearError()
	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// manualModeRequest is the JSON body for toggling manual entry.
type manualModeRequest struct {
	Enabled bool `json:"enabled"`
}

// ManualMode toggles manual weight entry.
func (h *WeighingHandler) ManualMode(w http.ResponseWriter, r *http.Request) {
	var req manualModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	h.engine.SetManualMode(req.Enabled)
	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// manualWeightRequest is the JSON body for a manually entered weight.
type manualWeightRequest struct {
	WeightKg float64 `json:"weight_kg"`
}

// ManualWeight sets the current weight directly while in manual mode.
func (h *WeighingHandler) ManualWeight(w http.ResponseWriter, r *http.Request) {
	var req manualWeightRequest
	if err := decodeJSON(w, r, &req); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	if err := h.engine.SetManualWeight(req.WeightKg); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// State returns the current station snapshot.
func (h *WeighingHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, snapshotToJSON(h.engine.Snapshot()))
}

// Events streams station snapshots as server-sent events until the client
// disconnects. The console uses this to mirror the live weight display.
func (h *WeighingHandler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Buffer absorbs sample-rate bursts; a stalled client drops snapshots
	// rather than stalling the engine.
	snapshots, cancel := h.engine.Subscribe(16)
	defer cancel()

	if err := writeSSE(w, snapshotToJSON(h.engine.Snapshot())); err != nil {
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-snapshots:
			if !open {
				return
			}
			if err := writeSSE(w, snapshotToJSON(snap)); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// writeSSE writes one event frame.
func writeSSE(w http.ResponseWriter, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}

// =============================================================================
// JSON serialization of engine state
// =============================================================================

// stationSnapshotJSON is the wire form of an engine snapshot.
type stationSnapshotJSON struct {
	Phase         string          `json:"phase"`
	State         json.RawMessage `json:"state,omitempty"`
	CurrentWeight float64         `json:"current_weight_kg"`
	Stable        bool            `json:"stable"`
	Manual        bool            `json:"manual"`
	LastError     string          `json:"last_error,omitempty"`
	LastMessage   string          `json:"last_message,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type weighingInJSON struct {
	VehicleID uuid.UUID  `json:"vehicle_id"`
	DriverID  uuid.UUID  `json:"driver_id"`
	ProductID uuid.UUID  `json:"product_id"`
	PartnerID *uuid.UUID `json:"partner_id,omitempty"`
	Direction string     `json:"direction"`
}

type weighingOutJSON struct {
	TicketNumber string     `json:"ticket_number"`
	FirstWeight  float64    `json:"first_weight_kg"`
	Direction    string     `json:"direction"`
	VehicleID    uuid.UUID  `json:"vehicle_id"`
	DriverID     uuid.UUID  `json:"driver_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	PartnerID    *uuid.UUID `json:"partner_id,omitempty"`
}

type completedStateJSON struct {
	TicketNumber string    `json:"ticket_number"`
	GrossWeight  float64   `json:"gross_weight_kg"`
	TareWeight   float64   `json:"tare_weight_kg"`
	NetWeight    float64   `json:"net_weight_kg"`
	Direction    string    `json:"direction"`
	CompletedAt  time.Time `json:"completed_at"`
}

type faultedJSON struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// snapshotToJSON flattens the state variant into a phase tag plus a
// variant-specific payload.
func snapshotToJSON(snap weighing.Snapshot) stationSnapshotJSON {
	out := stationSnapshotJSON{
		Phase:         domain.PhaseName(snap.State),
		CurrentWeight: snap.CurrentWeight,
		Stable:        snap.Stable,
		Manual:        snap.Manual,
		LastError:     snap.LastError,
		LastMessage:   snap.LastMessage,
		UpdatedAt:     snap.UpdatedAt,
	}

	var payload any
	switch s := snap.State.(type) {
	case domain.WeighingIn:
		payload = weighingInJSON{
			VehicleID: s.VehicleID,
			DriverID:  s.DriverID,
			ProductID: s.ProductID,
			PartnerID: s.PartnerID,
			Direction: s.Direction.String(),
		}
	case domain.WeighingOut:
		payload = weighingOutJSON{
			TicketNumber: s.TicketNumber,
			FirstWeight:  s.FirstWeight,
			Direction:    s.Direction.String(),
			VehicleID:    s.VehicleID,
			DriverID:     s.DriverID,
			ProductID:    s.ProductID,
			PartnerID:    s.PartnerID,
		}
	case domain.Completed:
		payload = completedStateJSON{
			TicketNumber: s.TicketNumber,
			GrossWeight:  s.GrossWeight,
			TareWeight:   s.TareWeight,
			NetWeight:    s.NetWeight,
			Direction:    s.Direction.String(),
			CompletedAt:  s.CompletedAt,
		}
	case domain.Faulted:
		payload = faultedJSON{
			Message: s.Message,
			Kind:    s.Kind,
		}
	}

	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			out.State = data
		}
	}
	return out
}

// completedTxnJSON is the wire form of a completed transaction snapshot.
type completedTxnJSON struct {
	TicketNumber string     `json:"ticket_number"`
	VehicleID    uuid.UUID  `json:"vehicle_id"`
	DriverID     uuid.UUID  `json:"driver_id"`
	ProductID    uuid.UUID  `json:"product_id"`
	PartnerID    *uuid.UUID `json:"partner_id,omitempty"`
	GrossWeight  float64    `json:"gross_weight_kg"`
	TareWeight   float64    `json:"tare_weight_kg"`
	NetWeight    float64    `json:"net_weight_kg"`
	Direction    string     `json:"direction"`
	Manual       bool       `json:"manual"`
	CompletedAt  time.Time  `json:"completed_at"`
}

func completedTxnToJSON(t *domain.CompletedTransaction) completedTxnJSON {
	return completedTxnJSON{
		TicketNumber: t.TicketNumber,
		VehicleID:    t.VehicleID,
		DriverID:     t.DriverID,
		ProductID:    t.ProductID,
		PartnerID:    t.PartnerID,
		GrossWeight:  t.GrossWeight,
		TareWeight:   t.TareWeight,
		NetWeight:    t.NetWeight,
		Direction:    t.Direction.String(),
		Manual:       t.Manual,
		CompletedAt:  t.CompletedAt,
	}
}
