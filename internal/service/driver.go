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

// DriverService defines the interface for driver master-data operations.
type DriverService interface {
	// Create registers a new driver.
	Create(ctx context.Context, params domain.CreateDriverParams) (*domain.Driver, error)

	// GetByID retrieves a driver by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error)

	// List retrieves all drivers, ordered by name.
	List(ctx context.Context) ([]domain.Driver, error)

	// Update updates an existing driver.
	Update(ctx context.Context, params domain.UpdateDriverParams) (*domain.Driver, error)

	// Delete deletes a driver.
	Delete(ctx context.Context, id uuid.UUID) error
}

// driverService implements DriverService.
type driverService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewDriverService creates a new DriverService.
func NewDriverService(queries *repository.Queries, logger *slog.Logger) DriverService {
	return &driverService{
		queries: queries,
		logger:  logger,
	}
}

// Create registers a new driver.
func (s *driverService) Create(ctx context.Context, params domain.CreateDriverParams) (*domain.Driver, error) {
	const op = "DriverService.Create"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.CreateDriver(ctx, repository.CreateDriverParams{
		Name:          strings.TrimSpace(params.Name),
		LicenseNumber: toNullString(params.LicenseNumber),
		Phone:         toNullString(params.Phone),
	})
	if err != nil {
		s.logger.Error("failed to create driver", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to create driver")
	}

	driver := repoDriverToDomain(row)
	s.logger.Info("driver created", "driver_id", driver.ID, "name", driver.Name)

	return &driver, nil
}

// GetByID retrieves a driver by ID.
func (s *driverService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Driver, error) {
	const op = "DriverService.GetByID"

	row, err := s.queries.GetDriverByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "driver", id.String())
		}
		s.logger.Error("failed to get driver", "error", err, "op", op, "driver_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve driver")
	}

	driver := repoDriverToDomain(row)
	return &driver, nil
}

// List retrieves all drivers, ordered by name.
func (s *driverService) List(ctx context.Context) ([]domain.Driver, error) {
	const op = "DriverService.List"

	rows, err := s.queries.ListDrivers(ctx)
	if err != nil {
		s.logger.Error("failed to list drivers", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list drivers")
	}

	drivers := make([]domain.Driver, len(rows))
	for i, r := range rows {
		drivers[i] = repoDriverToDomain(r)
	}
	return drivers, nil
}

// Update updates an existing driver.
func (s *driverService) Update(ctx context.Context, params domain.UpdateDriverParams) (*domain.Driver, error) {
	const op = "DriverService.Update"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.UpdateDriver(ctx, repository.UpdateDriverParams{
		ID:            params.ID,
		Name:          strings.TrimSpace(params.Name),
		LicenseNumber: toNullString(params.LicenseNumber),
		Phone:         toNullString(params.Phone),
		Active:        params.Active,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "driver", params.ID.String())
		}
		s.logger.Error("failed to update driver", "error", err, "op", op, "driver_id", params.ID)
		return nil, domain.Internal(err, op, "Failed to update driver")
	}

	driver := repoDriverToDomain(row)
	s.logger.Info("driver updated", "driver_id", driver.ID)

	return &driver, nil
}

// Delete deletes a driver.
func (s *driverService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "DriverService.Delete"

	err := s.queries.DeleteDriver(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "driver", id.String())
		}
		s.logger.Error("failed to delete driver", "error", err, "op", op, "driver_id", id)
		return domain.Internal(err, op, "Failed to delete driver")
	}

	s.logger.Info("driver deleted", "driver_id", id)
	return nil
}

// repoDriverToDomain converts a repository Driver to a domain Driver.
func repoDriverToDomain(rd repository.Driver) domain.Driver {
	return domain.Driver{
		ID:            rd.ID,
		Name:          rd.Name,
		LicenseNumber: fromNullString(rd.LicenseNumber),
		Phone:         fromNullString(rd.Phone),
		Active:        rd.Active,
		CreatedAt:     rd.CreatedAt.Time,
		UpdatedAt:     rd.UpdatedAt.Time,
	}
}
