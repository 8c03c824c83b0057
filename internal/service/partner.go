package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/repository"
)

// PartnerService defines the interface for partner master-data operations.
type PartnerService interface {
	// Create registers a new partner.
	Create(ctx context.Context, params domain.CreatePartnerParams) (*domain.Partner, error)

	// GetByID retrieves a partner by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error)

	// List retrieves all partners, ordered by name.
	List(ctx context.Context) ([]domain.Partner, error)

	// Update updates an existing partner.
	Update(ctx context.Context, params domain.UpdatePartnerParams) (*domain.Partner, error)

	// Delete deletes a partner.
	Delete(ctx context.Context, id uuid.UUID) error
}

// partnerService implements PartnerService.
type partnerService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewPartnerService creates a new PartnerService.
func NewPartnerService(queries *repository.Queries, logger *slog.Logger) PartnerService {
	return &partnerService{
		queries: queries,
		logger:  logger,
	}
}

// Create registers a new partner.
func (s *partnerService) Create(ctx context.Context, params domain.CreatePartnerParams) (*domain.Partner, error) {
	const op = "PartnerService.Create"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.CreatePartner(ctx, repository.CreatePartnerParams{
		Name:  strings.TrimSpace(params.Name),
		Kind:  string(params.Kind),
		TaxID: toNullString(params.TaxID),
	})
	if err != nil {
		s.logger.Error("failed to create partner", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to create partner")
	}

	partner := repoPartnerToDomain(row)
	s.logger.Info("partner created", "partner_id", partner.ID, "name", partner.Name)

	return &partner, nil
}

// GetByID retrieves a partner by ID.
func (s *partnerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Partner, error) {
	const op = "PartnerService.GetByID"

	row, err := s.queries.GetPartnerByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "partner", id.String())
		}
		s.logger.Error("failed to get partner", "error", err, "op", op, "partner_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve partner")
	}

	partner := repoPartnerToDomain(row)
	return &partner, nil
}

// List retrieves all partners, ordered by name.
func (s *partnerService) List(ctx context.Context) ([]domain.Partner, error) {
	const op = "PartnerService.List"

	rows, err := s.queries.ListPartners(ctx)
	if err != nil {
		s.logger.Error("failed to list partners", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list partners")
	}

	partners := make([]domain.Partner, len(rows))
	for i, r := range rows {
		partners[i] = repoPartnerToDomain(r)
	}
	return partners, nil
}

// Update updates an existing partner.
func (s *partnerService) Update(ctx context.Context, params domain.UpdatePartnerParams) (*domain.Partner, error) {
	const op = "PartnerService.Update"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.UpdatePartner(ctx, repository.UpdatePartnerParams{
		ID:     params.ID,
		Name:   strings.TrimSpace(params.Name),
		Kind:   string(params.Kind),
		TaxID:  toNullString(params.TaxID),
		Active: params.Active,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "partner", params.ID.String())
		}
		s.logger.Error("failed to update partner", "error", err, "op", op, "partner_id", params.ID)
		return nil, domain.Internal(err, op, "Failed to update partner")
	}

	partner := repoPartnerToDomain(row)
	s.logger.Info("partner updated", "partner_id", partner.ID)

	return &partner, nil
}

// Delete deletes a partner.
func (s *partnerService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "PartnerService.Delete"

	err := s.queries.DeletePartner(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "partner", id.String())
		}
		s.logger.Error("failed to delete partner", "error", err, "op", op, "partner_id", id)
		return domain.Internal(err, op, "Failed to delete partner")
	}

	s.logger.Info("partner deleted", "partner_id", id)
	return nil
}

// repoPartnerToDomain converts a repository Partner to a domain Partner.
func repoPartnerToDomain(rp repository.Partner) domain.Partner {
	return domain.Partner{
		ID:        rp.ID,
		Name:      rp.Name,
		Kind:      domain.PartnerKind(rp.Kind),
		TaxID:     fromNullString(rp.TaxID),
		Active:    rp.Active,
		CreatedAt: rp.CreatedAt.Time,
		UpdatedAt: rp.UpdatedAt.Time,
	}
}
