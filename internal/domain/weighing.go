// Package domain contains core business types and interfaces.
//
// This file defines the weighing state machine types: the closed set of
// WeighingState variants, the transaction direction, and the stability
// configuration that governs when a reading is trusted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Transaction Direction
// =============================================================================

// TransactionDirection determines which of the two weighings is gross vs tare.
type TransactionDirection string

const (
	// DirectionInbound means the vehicle enters loaded and leaves empty:
	// first weight is gross, second weight is tare.
	DirectionInbound TransactionDirection = "inbound"

	// DirectionOutbound means the vehicle enters empty and leaves loaded:
	// first weight is tare, second weight is gross.
	DirectionOutbound TransactionDirection = "outbound"
)

// String returns the string representation of the direction.
func (d TransactionDirection) String() string {
	return string(d)
}

// IsValid returns true if the direction is a recognized value.
func (d TransactionDirection) IsValid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// =============================================================================
// Stability Configuration
// =============================================================================

// Default stability parameters, used when the environment does not override them.
const (
	DefaultStabilityWindowSize = 5
	DefaultToleranceKg         = 2.0
	DefaultMinimumWeightKg     = 50.0
)

// StabilityConfig governs the sliding-window stability test and the minimum
// capturable weight. Immutable for the lifetime of an engine instance.
type StabilityConfig struct {
	WindowSize      int     // Number of samples that must agree (>= 1)
	ToleranceKg     float64 // Max absolute deviation from the window mean (>= 0)
	MinimumWeightKg float64 // Smallest weight a capture will accept (>= 0)
}

// DefaultStabilityConfig returns the standard stability parameters.
func DefaultStabilityConfig() StabilityConfig {
	return StabilityConfig{
		WindowSize:      DefaultStabilityWindowSize,
		ToleranceKg:     DefaultToleranceKg,
		MinimumWeightKg: DefaultMinimumWeightKg,
	}
}

// Validate checks the configuration bounds.
func (c StabilityConfig) Validate() error {
	const op = "stability_config.validate"
	if c.WindowSize < 1 {
		return Invalid(op, "window size must be at least 1")
	}
	if c.ToleranceKg < 0 {
		return Invalid(op, "tolerance must not be negative")
	}
	if c.MinimumWeightKg < 0 {
		return Invalid(op, "minimum weight must not be negative")
	}
	return nil
}

// =============================================================================
// Weighing State (closed variant set)
// =============================================================================

// WeighingState is the closed set of states a weighing station can be in.
// Exactly one variant is active at a time; the engine is the sole mutator.
//
// The marker method keeps the set sealed so every transition site can switch
// exhaustively over the known variants.
type WeighingState interface {
	weighingState()
}

// Idle means no operation is in progress. Initial and terminal-resting state.
type Idle struct{}

// WeighingIn is the first weighing of a new transaction.
type WeighingIn struct {
	VehicleID     uuid.UUID
	DriverID      uuid.UUID
	ProductID     uuid.UUID
	PartnerID     *uuid.UUID
	Direction     TransactionDirection
	CurrentWeight float64
	Stable        bool
	Manual        bool
}

// WeighingOut is the second weighing, bound to an already-open transaction.
type WeighingOut struct {
	TicketNumber  string
	FirstWeight   float64
	Direction     TransactionDirection
	CurrentWeight float64
	Stable        bool
	Manual        bool
	VehicleID     uuid.UUID
	DriverID      uuid.UUID
	ProductID     uuid.UUID
	PartnerID     *uuid.UUID
}

// Completed is the terminal display state after a successful weigh-out.
// It must be acknowledged to return to Idle.
type Completed struct {
	TicketNumber string
	GrossWeight  float64
	TareWeight   float64
	NetWeight    float64
	Direction    TransactionDirection
	CompletedAt  time.Time
}

// Faulted suspends normal operation until the operator acknowledges it.
// It carries the state to restore on acknowledgment.
type Faulted struct {
	Message  string
	Kind     string // one of the weighing failure kind codes
	Previous WeighingState
}

func (Idle) weighingState()        {}
func (WeighingIn) weighingState()  {}
func (WeighingOut) weighingState() {}
func (Completed) weighingState()   {}
func (Faulted) weighingState()     {}

// PhaseName returns a short identifier for the active variant, for logging
// and API serialization.
func PhaseName(s WeighingState) string {
	switch s.(type) {
	case Idle:
		return "idle"
	case WeighingIn:
		return "weighing_in"
	case WeighingOut:
		return "weighing_out"
	case Completed:
		return "completed"
	case Faulted:
		return "error"
	default:
		return "unknown"
	}
}

// =============================================================================
// Weighing Requests
// =============================================================================

// WeighInRequest carries the data needed to open a first-weighing session.
type WeighInRequest struct {
	VehicleID uuid.UUID
	DriverID  uuid.UUID
	ProductID uuid.UUID
	PartnerID *uuid.UUID
	Direction TransactionDirection
}

// Validate checks the request before a transition is attempted.
func (r WeighInRequest) Validate() error {
	const op = "weigh_in_request.validate"
	if r.VehicleID == uuid.Nil {
		return BusinessRule(op, "vehicle selection is required")
	}
	if r.DriverID == uuid.Nil {
		return BusinessRule(op, "driver selection is required")
	}
	if r.ProductID == uuid.Nil {
		return BusinessRule(op, "product selection is required")
	}
	if !r.Direction.IsValid() {
		return BusinessRule(op, "direction must be inbound or outbound")
	}
	return nil
}

// WeighOutRequest carries the data needed to resume an open transaction for
// its second weighing.
type WeighOutRequest struct {
	TicketNumber string
	FirstWeight  float64
	Direction    TransactionDirection
	VehicleID    uuid.UUID
	DriverID     uuid.UUID
	ProductID    uuid.UUID
	PartnerID    *uuid.UUID
}

// Validate checks the request before a transition is attempted.
func (r WeighOutRequest) Validate() error {
	const op = "weigh_out_request.validate"
	if r.TicketNumber == "" {
		return BusinessRule(op, "ticket number is required")
	}
	if r.FirstWeight < 0 {
		return BusinessRule(op, "first weight must not be negative")
	}
	if !r.Direction.IsValid() {
		return BusinessRule(op, "direction must be inbound or outbound")
	}
	return nil
}

// =============================================================================
// Completed Transaction Snapshot
// =============================================================================

// CompletedTransaction is the immutable snapshot built at the moment of
// weigh-out capture. It is handed to the caller and the persistence
// collaborator as a value; nothing owns it afterwards.
type CompletedTransaction struct {
	TicketNumber string
	VehicleID    uuid.UUID
	DriverID     uuid.UUID
	ProductID    uuid.UUID
	PartnerID    *uuid.UUID
	GrossWeight  float64
	TareWeight   float64
	NetWeight    float64
	Direction    TransactionDirection
	Manual       bool
	CompletedAt  time.Time
}
