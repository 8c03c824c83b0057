package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Transaction Status
// =============================================================================

// TransactionStatus represents the lifecycle state of a persisted transaction.
type TransactionStatus string

const (
	// TransactionStatusOpen indicates the first weighing is recorded and the
	// vehicle is out loading/unloading.
	TransactionStatusOpen TransactionStatus = "open"

	// TransactionStatusCompleted indicates the second weighing closed the
	// transaction.
	TransactionStatusCompleted TransactionStatus = "completed"
)

// String returns the string representation of the status.
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a recognized value.
func (s TransactionStatus) IsValid() bool {
	return s == TransactionStatusOpen || s == TransactionStatusCompleted
}

// =============================================================================
// Transaction Domain Type
// =============================================================================

// Transaction is the persisted record of one weighbridge transaction,
// keyed by its human-facing ticket number.
type Transaction struct {
	ID            uuid.UUID
	TicketNumber  string
	VehicleID     uuid.UUID
	DriverID      uuid.UUID
	ProductID     uuid.UUID
	PartnerID     *uuid.UUID
	Direction     TransactionDirection
	Status        TransactionStatus
	EntryWeightKg float64  // First weighing
	ExitWeightKg  *float64 // Second weighing, nil while open
	NetWeightKg   *float64 // |gross − tare|, nil while open
	Manual        bool     // Operator-entered weight, stability bypassed
	WeighedInAt   time.Time
	WeighedOutAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Computed fields populated by list queries for display.
	VehiclePlate string
	DriverName   string
	ProductName  string
	PartnerName  string
}

// IsOpen returns true while the transaction awaits its second weighing.
func (t *Transaction) IsOpen() bool {
	return t.Status == TransactionStatusOpen
}

// =============================================================================
// Persistence Collaborator Parameters
// =============================================================================

// CreateWeighInParams opens a transaction record at first-weighing capture.
type CreateWeighInParams struct {
	TicketNumber string
	VehicleID    uuid.UUID
	DriverID     uuid.UUID
	ProductID    uuid.UUID
	PartnerID    *uuid.UUID
	WeightKg     float64
	Manual       bool
	Direction    TransactionDirection
	WeighedInAt  time.Time
}

// UpdateWeighOutParams closes an open transaction record, keyed by ticket.
type UpdateWeighOutParams struct {
	TicketNumber string
	ExitWeightKg float64
	NetWeightKg  float64
	WeighedOutAt time.Time
}

// =============================================================================
// List Parameters and Result
// =============================================================================

// ListTransactionsParams filters and paginates the transaction history.
type ListTransactionsParams struct {
	Status *TransactionStatus // Optional status filter
	Day    *time.Time         // Optional calendar-day filter (weighed-in date)
	Limit  int32
	Offset int32
}

// ListTransactionsResult contains one page of transaction history.
type ListTransactionsResult struct {
	Transactions []Transaction
	Total        int64
	Limit        int32
	Offset       int32
}

// HasMore returns true if there are more results available.
func (r *ListTransactionsResult) HasMore() bool {
	return int64(r.Offset+r.Limit) < r.Total
}
