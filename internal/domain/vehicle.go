package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle is a registered truck that can be weighed at the station.
type Vehicle struct {
	ID            uuid.UUID
	PlateNumber   string
	Description   string
	TareWeightKg  *float64 // Last known empty weight, informational only
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateVehicleParams contains validated parameters for registering a vehicle.
type CreateVehicleParams struct {
	PlateNumber  string
	Description  string
	TareWeightKg *float64
}

// Validate checks vehicle registration parameters.
func (p CreateVehicleParams) Validate() error {
	const op = "vehicle.validate"
	if strings.TrimSpace(p.PlateNumber) == "" {
		return Invalid(op, "plate number is required")
	}
	if len(p.PlateNumber) > 20 {
		return Invalid(op, "plate number must be 20 characters or less")
	}
	if p.TareWeightKg != nil && *p.TareWeightKg < 0 {
		return Invalid(op, "tare weight must not be negative")
	}
	return nil
}

// UpdateVehicleParams contains validated parameters for updating a vehicle.
type UpdateVehicleParams struct {
	ID           uuid.UUID
	PlateNumber  string
	Description  string
	TareWeightKg *float64
	Active       bool
}

// Validate checks vehicle update parameters.
func (p UpdateVehicleParams) Validate() error {
	const op = "vehicle.validate"
	if strings.TrimSpace(p.PlateNumber) == "" {
		return Invalid(op, "plate number is required")
	}
	if len(p.PlateNumber) > 20 {
		return Invalid(op, "plate number must be 20 characters or less")
	}
	if p.TareWeightKg != nil && *p.TareWeightKg < 0 {
		return Invalid(op, "tare weight must not be negative")
	}
	return nil
}
