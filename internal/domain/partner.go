package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PartnerKind distinguishes the commercial role of a partner.
type PartnerKind string

const (
	PartnerKindCustomer PartnerKind = "customer"
	PartnerKindSupplier PartnerKind = "supplier"
)

// IsValid returns true if the kind is a recognized value.
func (k PartnerKind) IsValid() bool {
	return k == PartnerKindCustomer || k == PartnerKindSupplier
}

// Partner is the optional commercial counterparty on a transaction.
type Partner struct {
	ID        uuid.UUID
	Name      string
	Kind      PartnerKind
	TaxID     string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreatePartnerParams contains validated parameters for registering a partner.
type CreatePartnerParams struct {
	Name  string
	Kind  PartnerKind
	TaxID string
}

// Validate checks partner registration parameters.
func (p CreatePartnerParams) Validate() error {
	const op = "partner.validate"
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(op, "name is required")
	}
	if !p.Kind.IsValid() {
		return Invalid(op, "kind must be customer or supplier")
	}
	return nil
}

// UpdatePartnerParams contains validated parameters for updating a partner.
type UpdatePartnerParams struct {
	ID     uuid.UUID
	Name   string
	Kind   PartnerKind
	TaxID  string
	Active bool
}

// Validate checks partner update parameters.
func (p UpdatePartnerParams) Validate() error {
	const op = "partner.validate"
	if strings.TrimSpace(p.Name) == "" {
		return Invalid(op, "name is required")
	}
	if !p.Kind.IsValid() {
		return Invalid(op, "kind must be customer or supplier")
	}
	return nil
}
