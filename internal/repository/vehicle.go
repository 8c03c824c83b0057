package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Vehicle is a row of the vehicles table.
type Vehicle struct {
	ID           uuid.UUID
	PlateNumber  string
	Description  sql.NullString
	TareWeightKg sql.NullFloat64
	Active       bool
	CreatedAt    sql.NullTime
	UpdatedAt    sql.NullTime
}

// CreateVehicleParams inserts a vehicle row.
type CreateVehicleParams struct {
	PlateNumber  string
	Description  sql.NullString
	TareWeightKg sql.NullFloat64
}

const createVehicle = `
INSERT INTO vehicles (id, plate_number, description, tare_weight_kg, active)
VALUES ($1, $2, $3, $4, true)
RETURNING id, plate_number, description, tare_weight_kg, active, created_at, updated_at
`

func (q *Queries) CreateVehicle(ctx context.Context, params CreateVehicleParams) (Vehicle, error) {
	row := q.db.QueryRowContext(ctx, createVehicle,
		uuid.New(), params.PlateNumber, params.Description, params.TareWeightKg)
	return scanVehicle(row)
}

const getVehicleByID = `
SELECT id, plate_number, description, tare_weight_kg, active, created_at, updated_at
FROM vehicles WHERE id = $1
`

func (q *Queries) GetVehicleByID(ctx context.Context, id uuid.UUID) (Vehicle, error) {
	return scanVehicle(q.db.QueryRowContext(ctx, getVehicleByID, id))
}

const getVehicleByPlate = `
SELECT id, plate_number, description, tare_weight_kg, active, created_at, updated_at
FROM vehicles WHERE plate_number = $1
`

func (q *Queries) GetVehicleByPlate(ctx context.Context, plateNumber string) (Vehicle, error) {
	return scanVehicle(q.db.QueryRowContext(ctx, getVehicleByPlate, plateNumber))
}

const listVehicles = `
SELECT id, plate_number, description, tare_weight_kg, active, created_at, updated_at
FROM vehicles
ORDER BY plate_number
`

func (q *Queries) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	rows, err := q.db.QueryContext(ctx, listVehicles)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.PlateNumber, &v.Description,
			&v.TareWeightKg, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, rows.Err()
}

// UpdateVehicleParams updates a vehicle row.
type UpdateVehicleParams struct {
	ID           uuid.UUID
	PlateNumber  string
	Description  sql.NullString
	TareWeightKg sql.NullFloat64
	Active       bool
}

const updateVehicle = `
UPDATE vehicles
SET plate_number = $2, description = $3, tare_weight_kg = $4, active = $5, updated_at = now()
WHERE id = $1
RETURNING id, plate_number, description, tare_weight_kg, active, created_at, updated_at
`

func (q *Queries) UpdateVehicle(ctx context.Context, params UpdateVehicleParams) (Vehicle, error) {
	row := q.db.QueryRowContext(ctx, updateVehicle,
		params.ID, params.PlateNumber, params.Description, params.TareWeightKg, params.Active)
	return scanVehicle(row)
}

const deleteVehicle = `DELETE FROM vehicles WHERE id = $1`

func (q *Queries) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, deleteVehicle, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func scanVehicle(row *sql.Row) (Vehicle, error) {
	var v Vehicle
	err := row.Scan(&v.ID, &v.PlateNumber, &v.Description,
		&v.TareWeightKg, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}
