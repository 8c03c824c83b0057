package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Partner is a row of the partners table.
type Partner struct {
	ID        uuid.UUID
	Name      string
	Kind      string
	TaxID     sql.NullString
	Active    bool
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

// CreatePartnerParams inserts a partner row.
type CreatePartnerParams struct {
	Name  string
	Kind  string
	TaxID sql.NullString
}

const createPartner = `
INSERT INTO partners (id, name, kind, tax_id, active)
VALUES ($1, $2, $3, $4, true)
RETURNING id, name, kind, tax_id, active, created_at, updated_at
`

func (q *Queries) CreatePartner(ctx context.Context, params CreatePartnerParams) (Partner, error) {
	row := q.db.QueryRowContext(ctx, createPartner,
		uuid.New(), params.Name, params.Kind, params.TaxID)
	return scanPartner(row)
}

const getPartnerByID = `
SELECT id, name, kind, tax_id, active, created_at, updated_at
FROM partners WHERE id = $1
`

func (q *Queries) GetPartnerByID(ctx context.Context, id uuid.UUID) (Partner, error) {
	return scanPartner(q.db.QueryRowContext(ctx, getPartnerByID, id))
}

const listPartners = `
SELECT id, name, kind, tax_id, active, created_at, updated_at
FROM partners
ORDER BY name
`

func (q *Queries) ListPartners(ctx context.Context) ([]Partner, error) {
	rows, err := q.db.QueryContext(ctx, listPartners)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Partner
	for rows.Next() {
		var p Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.Kind, &p.TaxID,
			&p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// UpdatePartnerParams updates a partner row.
type UpdatePartnerParams struct {
	ID     uuid.UUID
	Name   string
	Kind   string
	TaxID  sql.NullString
	Active bool
}

const updatePartner = `
UPDATE partners
SET name = $2, kind = $3, tax_id = $4, active = $5, updated_at = now()
WHERE id = $1
RETURNING id, name, kind, tax_id, active, created_at, updated_at
`

func (q *Queries) UpdatePartner(ctx context.Context, params UpdatePartnerParams) (Partner, error) {
	row := q.db.QueryRowContext(ctx, updatePartner,
		params.ID, params.Name, params.Kind, params.TaxID, params.Active)
	return scanPartner(row)
}

const deletePartner = `DELETE FROM partners WHERE id = $1`

func (q *Queries) DeletePartner(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, deletePartner, id)
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

func scanPartner(row *sql.Row) (Partner, error) {
	var p Partner
	err := row.Scan(&p.ID, &p.Name, &p.Kind, &p.TaxID,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
