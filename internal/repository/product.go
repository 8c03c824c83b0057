package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Product is a row of the products table.
type Product struct {
	ID        uuid.UUID
	Code      string
	Name      string
	Active    bool
	CreatedAt sql.NullTime
	UpdatedAt sql.NullTime
}

// CreateProductParams inserts a product row.
type CreateProductParams struct {
	Code string
	Name string
}

const createProduct = `
INSERT INTO products (id, code, name, active)
VALUES ($1, $2, $3, true)
RETURNING id, code, name, active, created_at, updated_at
`

func (q *Queries) CreateProduct(ctx context.Context, params CreateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, createProduct, uuid.New(), params.Code, params.Name)
	return scanProduct(row)
}

const getProductByID = `
SELECT id, code, name, active, created_at, updated_at
FROM products WHERE id = $1
`

func (q *Queries) GetProductByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductByID, id))
}

const listProducts = `
SELECT id, code, name, active, created_at, updated_at
FROM products
ORDER BY code
`

func (q *Queries) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, listProducts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// UpdateProductParams updates a product row.
type UpdateProductParams struct {
	ID     uuid.UUID
	Code   string
	Name   string
	Active bool
}

const updateProduct = `
UPDATE products
SET code = $2, name = $3, active = $4, updated_at = now()
WHERE id = $1
RETURNING id, code, name, active, created_at, updated_at
`

func (q *Queries) UpdateProduct(ctx context.Context, params UpdateProductParams) (Product, error) {
	row := q.db.QueryRowContext(ctx, updateProduct,
		params.ID, params.Code, params.Name, params.Active)
	return scanProduct(row)
}

const deleteProduct = `DELETE FROM products WHERE id = $1`

func (q *Queries) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	result, err := q.db.ExecContext(ctx, deleteProduct, id)
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

func scanProduct(row *sql.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Code, &p.Name, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
