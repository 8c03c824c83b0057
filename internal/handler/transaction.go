package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/service"
)

// TransactionHandler exposes transaction history.
type TransactionHandler struct {
	transactions service.TransactionService
	logger       *slog.Logger
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions service.TransactionService, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactions: transactions,
		logger:       logger,
	}
}

// RegisterRoutes registers transaction endpoints on the mux.
func (h *TransactionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/transactions", h.List)
	mux.HandleFunc("GET /api/transactions/{ticket}", h.GetByTicket)
}

// transactionJSON is the wire form of a transaction record.
type transactionJSON struct {
	ID            uuid.UUID  `json:"id"`
	TicketNumber  string     `json:"ticket_number"`
	VehicleID     uuid.UUID  `json:"vehicle_id"`
	VehiclePlate  string     `json:"vehicle_plate,omitempty"`
	DriverID      uuid.UUID  `json:"driver_id"`
	DriverName    string     `json:"driver_name,omitempty"`
	ProductID     uuid.UUID  `json:"product_id"`
	ProductName   string     `json:"product_name,omitempty"`
	PartnerID     *uuid.UUID `json:"partner_id,omitempty"`
	PartnerName   string     `json:"partner_name,omitempty"`
	Direction     string     `json:"direction"`
	Status        string     `json:"status"`
	EntryWeightKg float64    `json:"entry_weight_kg"`
	ExitWeightKg  *float64   `json:"exit_weight_kg,omitempty"`
	NetWeightKg   *float64   `json:"net_weight_kg,omitempty"`
	Manual        bool       `json:"manual"`
	WeighedInAt   time.Time  `json:"weighed_in_at"`
	WeighedOutAt  *time.Time `json:"weighed_out_at,omitempty"`
}

// listResponse is one page of transaction history.
type listResponse struct {
	Transactions []transactionJSON `json:"transactions"`
	Total        int64             `json:"total"`
	Limit        int32             `json:"limit"`
	Offset       int32             `json:"offset"`
	HasMore      bool              `json:"has_more"`
}

// List returns one page of transaction history, newest first. Supports
// status, day, limit, and offset query parameters.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "TransactionHandler.List"

	params := domain.ListTransactionsParams{Limit: 50}

	q := r.URL.Query()
	if raw := q.Get("status"); raw != "" {
		status := domain.TransactionStatus(raw)
		if !status.IsValid() {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "status must be open or completed"))
			return
		}
		params.Status = &status
	}
	if raw := q.Get("day"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "day must be formatted YYYY-MM-DD"))
			return
		}
		params.Day = &day
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || limit <= 0 {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "limit must be a positive integer"))
			return
		}
		params.Limit = int32(limit)
	}
	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || offset < 0 {
			ErrorResponse(w, r, h.logger, domain.Invalid(op, "offset must be a non-negative integer"))
			return
		}
		params.Offset = int32(offset)
	}

	result, err := h.transactions.List(r.Context(), params)
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}

	out := listResponse{
		Transactions: make([]transactionJSON, len(result.Transactions)),
		Total:        result.Total,
		Limit:        result.Limit,
		Offset:       result.Offset,
		HasMore:      result.HasMore(),
	}
	for i, t := range result.Transactions {
		out.Transactions[i] = transactionToJSON(t)
	}

	respondJSON(w, http.StatusOK, out)
}

// GetByTicket returns one transaction by its ticket number.
func (h *TransactionHandler) GetByTicket(w http.ResponseWriter, r *http.Request) {
	txn, err := h.transactions.GetByTicket(r.Context(), r.PathValue("ticket"))
	if err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, transactionToJSON(*txn))
}

// transactionToJSON converts a domain Transaction to its wire form.
func transactionToJSON(t domain.Transaction) transactionJSON {
	return transactionJSON{
		ID:            t.ID,
		TicketNumber:  t.TicketNumber,
		VehicleID:     t.VehicleID,
		VehiclePlate:  t.VehiclePlate,
		DriverID:      t.DriverID,
		DriverName:    t.DriverName,
		ProductID:     t.ProductID,
		ProductName:   t.ProductName,
		PartnerID:     t.PartnerID,
		PartnerName:   t.PartnerName,
		Direction:     t.Direction.String(),
		Status:        t.Status.String(),
		EntryWeightKg: t.EntryWeightKg,
		ExitWeightKg:  t.ExitWeightKg,
		NetWeightKg:   t.NetWeightKg,
		Manual:        t.Manual,
		WeighedInAt:   t.WeighedInAt,
		WeighedOutAt:  t.WeighedOutAt,
	}
}
