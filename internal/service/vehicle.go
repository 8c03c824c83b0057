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

// VehicleService defines the interface for vehicle master-data operations.
type VehicleService interface {
	// Create registers a new vehicle.
	Create(ctx context.Context, params domain.CreateVehicleParams) (*domain.Vehicle, error)

	// GetByID retrieves a vehicle by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByPlate retrieves a vehicle by plate number.
	GetByPlate(ctx context.Context, plateNumber string) (*domain.Vehicle, error)

	// List retrieves all vehicles, ordered by plate number.
	List(ctx context.Context) ([]domain.Vehicle, error)

	// Update updates an existing vehicle.
	Update(ctx context.Context, params domain.UpdateVehicleParams) (*domain.Vehicle, error)

	// Delete deletes a vehicle.
	Delete(ctx context.Context, id uuid.UUID) error
}

// vehicleService implements VehicleService.
type vehicleService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(queries *repository.Queries, logger *slog.Logger) VehicleService {
	return &vehicleService{
		queries: queries,
		logger:  logger,
	}
}

// Create registers a new vehicle.
func (s *vehicleService) Create(ctx context.Context, params domain.CreateVehicleParams) (*domain.Vehicle, error) {
	const op = "VehicleService.Create"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.CreateVehicle(ctx, repository.CreateVehicleParams{
		PlateNumber:  strings.ToUpper(strings.TrimSpace(params.PlateNumber)),
		Description:  toNullString(params.Description),
		TareWeightKg: toNullFloat64(params.TareWeightKg),
	})
	if err != nil {
		s.logger.Error("failed to create vehicle", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to create vehicle")
	}

	vehicle := repoVehicleToDomain(row)
	s.logger.Info("vehicle created", "vehicle_id", vehicle.ID, "plate", vehicle.PlateNumber)

	return &vehicle, nil
}

// GetByID retrieves a vehicle by ID.
func (s *vehicleService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	const op = "VehicleService.GetByID"

	row, err := s.queries.GetVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "vehicle", id.String())
		}
		s.logger.Error("failed to get vehicle", "error", err, "op", op, "vehicle_id", id)
		return nil, domain.Internal(err, op, "Failed to retrieve vehicle")
	}

	vehicle := repoVehicleToDomain(row)
	return &vehicle, nil
}

// GetByPlate retrieves a vehicle by plate number.
func (s *vehicleService) GetByPlate(ctx context.Context, plateNumber string) (*domain.Vehicle, error) {
	const op = "VehicleService.GetByPlate"

	plateNumber = strings.ToUpper(strings.TrimSpace(plateNumber))
	row, err := s.queries.GetVehicleByPlate(ctx, plateNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "vehicle", plateNumber)
		}
		s.logger.Error("failed to get vehicle by plate", "error", err, "op", op, "plate", plateNumber)
		return nil, domain.Internal(err, op, "Failed to retrieve vehicle")
	}

	vehicle := repoVehicleToDomain(row)
	return &vehicle, nil
}

// List retrieves all vehicles, ordered by plate number.
func (s *vehicleService) List(ctx context.Context) ([]domain.Vehicle, error) {
	const op = "VehicleService.List"

	rows, err := s.queries.ListVehicles(ctx)
	if err != nil {
		s.logger.Error("failed to list vehicles", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list vehicles")
	}

	vehicles := make([]domain.Vehicle, len(rows))
	for i, r := range rows {
		vehicles[i] = repoVehicleToDomain(r)
	}
	return vehicles, nil
}

// Update updates an existing vehicle.
func (s *vehicleService) Update(ctx context.Context, params domain.UpdateVehicleParams) (*domain.Vehicle, error) {
	const op = "VehicleService.Update"

	if err := params.Validate(); err != nil {
		return nil, err
	}

	row, err := s.queries.UpdateVehicle(ctx, repository.UpdateVehicleParams{
		ID:           params.ID,
		PlateNumber:  strings.ToUpper(strings.TrimSpace(params.PlateNumber)),
		Description:  toNullString(params.Description),
		TareWeightKg: toNullFloat64(params.TareWeightKg),
		Active:       params.Active,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "vehicle", params.ID.String())
		}
		s.logger.Error("failed to update vehicle", "error", err, "op", op, "vehicle_id", params.ID)
		return nil, domain.Internal(err, op, "Failed to update vehicle")
	}

	vehicle := repoVehicleToDomain(row)
	s.logger.Info("vehicle updated", "vehicle_id", vehicle.ID)

	return &vehicle, nil
}

// Delete deletes a vehicle.
func (s *vehicleService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "VehicleService.Delete"

	err := s.queries.DeleteVehicle(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "vehicle", id.String())
		}
		s.logger.Error("failed to delete vehicle", "error", err, "op", op, "vehicle_id", id)
		return domain.Internal(err, op, "Failed to delete vehicle")
	}

	s.logger.Info("vehicle deleted", "vehicle_id", id)
	return nil
}

// repoVehicleToDomain converts a repository Vehicle to a domain Vehicle.
func repoVehicleToDomain(rv repository.Vehicle) domain.Vehicle {
	return domain.Vehicle{
		ID:           rv.ID,
		PlateNumber:  rv.PlateNumber,
		Description:  fromNullString(rv.Description),
		TareWeightKg: fromNullFloat64(rv.TareWeightKg),
		Active:       rv.Active,
		CreatedAt:    rv.CreatedAt.Time,
		UpdatedAt:    rv.UpdatedAt.Time,
	}
}
