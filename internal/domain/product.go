package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Product is a material that can be hauled across the bridge.
type Product struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateProductParams contains validated parameters for registering a product.
type CreateProductParams struct {
	Code string
	Name string
}

// Validate checks product registration parameters.
func (p CreateProductParams) Validate() error {
	const op = "product.validate"
	if strings.TrimSpace(p.Code) == "" {
		return Invalid(op, "code is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(op, "name is required")
	}
	return nil
}

// UpdateProductParams contains validated parameters for updating a product.
type UpdateProductParams struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Active bool
}

// Validate checks product update parameters.
func (p UpdateProductParams) Validate() error {
	const op = "product.validate"
	if strings.TrimSpace(p.Code) == "" {
		return Invalid(op, "code is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(op, "name is required")
	}
	return nil
}
