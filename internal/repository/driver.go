package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Driver is a row of the drivers table.
type Driver struct {
	ID            uuid.UUID
	Name          string
	LicenseNumber sql.NullString
	Phone         sql.NullString
	Active        bool
	CreatedAt     sql.NullTime
	UpdatedAt     sql.NullTime
}

// CreateDriverParams inserts a driver row.
type CreateDriverParams struct {
	Name          string
	LicenseNumber sql.NullString
	Phone         sql.NullString
}

const createDriver = `
INSERT INTO drivers (id, name, license_number, phone, active)
VALUES ($1, $2, $3, $4, true)
RETURNING id, name, license_number, phone, active, created_at, updated_at
`

func (q *Queries) CreateDriver(ctx context.Context, params CreateDriverParams) (Driver, error) {
	row := q.db.QueryRowContext(ctx, createDriver,
		uuid.New(), params.Name, params.LicenseNumber, params.Phone)
	return scanDriver(row)
}

const getDriverByID = `
SELECT id, name, license_number, phone, active, created_at, updated_at
FROM drivers WHERE id = $1
`

func (q *Queries) GetDriverByID(ctx context.Context, id uuid.UUID) (Driver, error) {
	return scanDriver(q.db.QueryRowContext(ctx, getDriverByID, id))
}

const listDrivers = `
SELECT id, name, license_number, phone, active, created_at, updated_at
FROM drivers
ORDER BY name
`

func (q *Queries) ListDrivers(ctx context.Context) ([]Driver, error) {
	rows, err := q.db.QueryContext(ctx, listDrivers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.LicenseNumber,
			&d.Phone, &d.Active, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

// UpdateDriverParams updates a driver row.
type UpdateDriverParams struct {
	ID            uuid.UUID
	Name          string
	LicenseNumber sql.NullString
	Phone         sql.NullString
	Active        bool
}

const updateDriver = `
UPDATE drivers
SET name = $2, license_number = $3, phone = $4, active = $5, updated_at = now()
WHERE id = $1
RETURNING id, name, license_number, phone, active, created_at, updated_at
`

func (q *Queries) UpdateDriver(ctx context.Context, params UpdateDriverParams) (Driver, error) {
	row := q.db.QueryRowContext(ctx, updateDriver,
		params.ID, params.Name, params.LicenseNumber, params.Phone, params.Active)
	return scanDriver(row)
}

const deleteDriver = `DELETE FROM drivers WHERE id = $1`

func (q *Queries) DeleteDriver(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, deleteDriver, id)
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

func scanDriver(row *sql.Row) (Driver, error) {
	var d Driver
	err := row.Scan(&d.ID, &d.Name, &d.LicenseNumber,
		&d.Phone, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}
