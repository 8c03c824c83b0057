package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	ID            uuid.UUID
	TicketNumber  string
	VehicleID     uuid.UUID
	DriverID      uuid.UUID
	ProductID     uuid.UUID
	PartnerID     uuid.NullUUID
	Direction     string
	Status        string
	EntryWeightKg float64
	ExitWeightKg  sql.NullFloat64
	NetWeightKg   sql.NullFloat64
	Manual        bool
	WeighedInAt   time.Time
	WeighedOutAt  sql.NullTime
	CreatedAt     sql.NullTime
	UpdatedAt     sql.NullTime
}

// TransactionWithNames joins display names for list views.
type TransactionWithNames struct {
	Transaction
	VehiclePlate string
	DriverName   string
	ProductName  string
	PartnerName  sql.NullString
}

// CreateTransactionParams opens a transaction row at weigh-in capture.
type CreateTransactionParams struct {
	TicketNumber  string
	VehicleID     uuid.UUID
	DriverID      uuid.UUID
	ProductID     uuid.UUID
	PartnerID     uuid.NullUUID
	Direction     string
	EntryWeightKg float64
	Manual        bool
	WeighedInAt   time.Time
}

const createTransaction = `
INSERT INTO transactions (
	id, ticket_number, vehicle_id, driver_id, product_id, partner_id,
	direction, status, entry_weight_kg, manual, weighed_in_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, 'open', $8, $9, $10)
RETURNING id, ticket_number, vehicle_id, driver_id, product_id, partner_id,
	direction, status, entry_weight_kg, exit_weight_kg, net_weight_kg,
	manual, weighed_in_at, weighed_out_at, created_at, updated_at
`

// CreateTransaction inserts a new open transaction keyed by ticket number.
func (q *Queries) CreateTransaction(ctx context.Context, params CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		uuid.New(),
		params.TicketNumber,
		params.VehicleID,
		params.DriverID,
		params.ProductID,
		params.PartnerID,
		params.Direction,
		params.EntryWeightKg,
		params.Manual,
		params.WeighedInAt,
	)
	return scanTransaction(row)
}

// CompleteTransactionParams closes an open transaction row.
type CompleteTransactionParams struct {
	TicketNumber string
	ExitWeightKg float64
	NetWeightKg  float64
	WeighedOutAt time.Time
}

const completeTransaction = `
UPDATE transactions
SET status = 'completed',
	exit_weight_kg = $2,
	net_weight_kg = $3,
	weighed_out_at = $4,
	updated_at = now()
WHERE ticket_number = $1 AND status = 'open'
`

// CompleteTransactionByTicket records the second weighing against an open
// transaction. Returns sql.ErrNoRows if the ticket does not name an open
// transaction, so a repeated update cannot clobber a closed record.
func (q *Queries) CompleteTransactionByTicket(ctx context.Context, params CompleteTransactionParams) error {
	result, err := q.db.ExecContext(ctx, completeTransaction,
		params.TicketNumber,
		params.ExitWeightKg,
		params.NetWeightKg,
		params.WeighedOutAt,
	)
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

const getTransactionByTicket = `
SELECT id, ticket_number, vehicle_id, driver_id, product_id, partner_id,
	direction, status, entry_weight_kg, exit_weight_kg, net_weight_kg,
	manual, weighed_in_at, weighed_out_at, created_at, updated_at
FROM transactions
WHERE ticket_number = $1
`

// GetTransactionByTicket fetches one transaction by its ticket number.
func (q *Queries) GetTransactionByTicket(ctx context.Context, ticketNumber string) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransactionByTicket, ticketNumber)
	return scanTransaction(row)
}

// ListTransactionsParams filters and paginates the history listing.
type ListTransactionsParams struct {
	Status sql.NullString
	Day    sql.NullTime
	Limit  int32
	Offset int32
}

const listTransactions = `
SELECT t.id, t.ticket_number, t.vehicle_id, t.driver_id, t.product_id, t.partner_id,
	t.direction, t.status, t.entry_weight_kg, t.exit_weight_kg, t.net_weight_kg,
	t.manual, t.weighed_in_at, t.weighed_out_at, t.created_at, t.updated_at,
	v.plate_number, d.name, p.name, pa.name
FROM transactions t
JOIN vehicles v ON v.id = t.vehicle_id
JOIN drivers d ON d.id = t.driver_id
JOIN products p ON p.id = t.product_id
LEFT JOIN partners pa ON pa.id = t.partner_id
WHERE ($1::text IS NULL OR t.status = $1)
  AND ($2::date IS NULL OR t.weighed_in_at::date = $2::date)
ORDER BY t.weighed_in_at DESC
LIMIT $3 OFFSET $4
`

// ListTransactions returns one page of transactions, newest first, with
// display names joined in.
func (q *Queries) ListTransactions(ctx context.Context, params ListTransactionsParams) ([]TransactionWithNames, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		params.Status, params.Day, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionWithNames
	for rows.Next() {
		var t TransactionWithNames
		if err := rows.Scan(
			&t.ID, &t.TicketNumber, &t.VehicleID, &t.DriverID, &t.ProductID, &t.PartnerID,
			&t.Direction, &t.Status, &t.EntryWeightKg, &t.ExitWeightKg, &t.NetWeightKg,
			&t.Manual, &t.WeighedInAt, &t.WeighedOutAt, &t.CreatedAt, &t.UpdatedAt,
			&t.VehiclePlate, &t.DriverName, &t.ProductName, &t.PartnerName,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

const countTransactions = `
SELECT count(*)
FROM transactions t
WHERE ($1::text IS NULL OR t.status = $1)
  AND ($2::date IS NULL OR t.weighed_in_at::date = $2::date)
`

// CountTransactions returns the total matching the same filters as
// ListTransactions.
func (q *Queries) CountTransactions(ctx context.Context, status sql.NullString, day sql.NullTime) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, countTransactions, status, day).Scan(&total)
	return total, err
}

const maxTicketSequenceForDay = `
SELECT coalesce(max(split_part(ticket_number, '-', 3)::int), 0)
FROM transactions
WHERE ticket_number LIKE $1
`

// MaxTicketSequenceForDay returns the highest NNNN segment among tickets with
// the given prefix (e.g. "WB-20260314-%"). Used to reseed the ticket counter
// after a restart.
func (q *Queries) MaxTicketSequenceForDay(ctx context.Context, ticketPrefix string) (int, error) {
	var max int
	err := q.db.QueryRowContext(ctx, maxTicketSequenceForDay, ticketPrefix).Scan(&max)
	return max, err
}

const listTransactionsCompletedOn = `
SELECT t.id, t.ticket_number, t.vehicle_id, t.driver_id, t.product_id, t.partner_id,
	t.direction, t.status, t.entry_weight_kg, t.exit_weight_kg, t.net_weight_kg,
	t.manual, t.weighed_in_at, t.weighed_out_at, t.created_at, t.updated_at,
	v.plate_number, d.name, p.name, pa.name
FROM transactions t
JOIN vehicles v ON v.id = t.vehicle_id
JOIN drivers d ON d.id = t.driver_id
JOIN products p ON p.id = t.product_id
LEFT JOIN partners pa ON pa.id = t.partner_id
WHERE t.status = 'completed' AND t.weighed_out_at::date = $1::date
ORDER BY t.weighed_out_at ASC
`

// ListTransactionsCompletedOn returns every transaction closed on the given
// calendar day, oldest first. Feeds the daily export.
func (q *Queries) ListTransactionsCompletedOn(ctx context.Context, day time.Time) ([]TransactionWithNames, error) {
	rows, err := q.db.QueryContext(ctx, listTransactionsCompletedOn, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []TransactionWithNames
	for rows.Next() {
		var t TransactionWithNames
		if err := rows.Scan(
			&t.ID, &t.TicketNumber, &t.VehicleID, &t.DriverID, &t.ProductID, &t.PartnerID,
			&t.Direction, &t.Status, &t.EntryWeightKg, &t.ExitWeightKg, &t.NetWeightKg,
			&t.Manual, &t.WeighedInAt, &t.WeighedOutAt, &t.CreatedAt, &t.UpdatedAt,
			&t.VehiclePlate, &t.DriverName, &t.ProductName, &t.PartnerName,
		); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func scanTransaction(row *sql.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(
		&t.ID, &t.TicketNumber, &t.VehicleID, &t.DriverID, &t.ProductID, &t.PartnerID,
		&t.Direction, &t.Status, &t.EntryWeightKg, &t.ExitWeightKg, &t.NetWeightKg,
		&t.Manual, &t.WeighedInAt, &t.WeighedOutAt, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
