package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Driver is a registered person authorized to move vehicles over the bridge.
type Driver struct {
	ID            uuid.UUID
	Name          string
	LicenseNumber string
	Phone         string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateDriverParams contains validated parameters for registering a driver.
type CreateDriverParams struct {
	Name          string
	LicenseNumber string
	Phone         string
}

// Validate checks driver registration parameters.
func (p CreateDriverParams) Validate() error {
	const op = "driver.validate"
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(op, "name is required")
	}
	if len(p.Name) > 100 {
		return Invalid(op, "name must be 100 characters or less")
	}
	return nil
}

// UpdateDriverParams contains validated parameters for updating a driver.
type UpdateDriverParams struct {
	ID            uuid.UUID
	Name          string
	LicenseNumber string
	Phone         string
	Active        bool
}

// Validate checks driver update parameters.
func (p UpdateDriverParams) Validate() error {
	const op = "driver.validate"
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(op, "name is required")
	}
	if len(p.Name) > 100 {
		return Invalid(op, "name must be 100 characters or less")
	}
	return nil
}
