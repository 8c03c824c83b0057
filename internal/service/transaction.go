package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironaxle/weighstation/internal/domain"
	"github.com/ironaxle/weighstation/internal/metrics"
	"github.com/ironaxle/weighstation/internal/repository"
	"github.com/ironaxle/weighstation/internal/weighing"
)

// TransactionService defines the interface for transaction persistence and
// history. It satisfies the weighing engine's recorder collaborator.
type TransactionService interface {
	// CreateWeighIn opens a transaction record at first-weighing capture.
	CreateWeighIn(ctx context.Context, params domain.CreateWeighInParams) error

	// UpdateWeighOut closes an open transaction record, keyed by ticket.
	// Returns ENOTFOUND if the ticket does not name an open transaction.
	UpdateWeighOut(ctx context.Context, params domain.UpdateWeighOutParams) error

	// GetByTicket retrieves one transaction by its ticket number.
	GetByTicket(ctx context.Context, ticketNumber string) (*domain.Transaction, error)

	// List retrieves one page of transaction history, newest first.
	List(ctx context.Context, params domain.ListTransactionsParams) (*domain.ListTransactionsResult, error)

	// ListCompletedOn retrieves every transaction closed on the given calendar
	// day, oldest first.
	ListCompletedOn(ctx context.Context, day time.Time) ([]domain.Transaction, error)

	// MaxTicketSequenceForDay returns the highest ticket sequence already
	// issued for the given day, for reseeding the ticket counter at startup.
	MaxTicketSequenceForDay(ctx context.Context, day time.Time) (int, error)
}

// transactionService implements TransactionService.
type transactionService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(queries *repository.Queries, logger *slog.Logger) TransactionService {
	return &transactionService{
		queries: queries,
		logger:  logger,
	}
}

// CreateWeighIn opens a transaction record at first-weighing capture.
func (s *transactionService) CreateWeighIn(ctx context.Context, params domain.CreateWeighInParams) error {
	const op = "TransactionService.CreateWeighIn"

	_, err := s.queries.CreateTransaction(ctx, repository.CreateTransactionParams{
		TicketNumber:  params.TicketNumber,
		VehicleID:     params.VehicleID,
		DriverID:      params.DriverID,
		ProductID:     params.ProductID,
		PartnerID:     toNullUUID(params.PartnerID),
		Direction:     params.Direction.String(),
		EntryWeightKg: params.WeightKg,
		Manual:        params.Manual,
		WeighedInAt:   params.WeighedInAt,
	})
	if err != nil {
		s.logger.Error("failed to create transaction", "error", err, "op", op, "ticket", params.TicketNumber)
		return domain.Internal(err, op, "Failed to record first weighing")
	}

	s.logger.Info("transaction opened",
		"ticket", params.TicketNumber,
		"direction", params.Direction,
		"entry_weight_kg", params.WeightKg,
		"manual", params.Manual)
	metrics.TransactionsOpened.Inc()

	return nil
}

// UpdateWeighOut closes an open transaction record, keyed by ticket.
func (s *transactionService) UpdateWeighOut(ctx context.Context, params domain.UpdateWeighOutParams) error {
	const op = "TransactionService.UpdateWeighOut"

	err := s.queries.CompleteTransactionByTicket(ctx, repository.CompleteTransactionParams{
		TicketNumber: params.TicketNumber,
		ExitWeightKg: params.ExitWeightKg,
		NetWeightKg:  params.NetWeightKg,
		WeighedOutAt: params.WeighedOutAt,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFound(op, "open transaction", params.TicketNumber)
		}
		s.logger.Error("failed to complete transaction", "error", err, "op", op, "ticket", params.TicketNumber)
		return domain.Internal(err, op, "Failed to record second weighing")
	}

	s.logger.Info("transaction completed",
		"ticket", params.TicketNumber,
		"exit_weight_kg", params.ExitWeightKg,
		"net_weight_kg", params.NetWeightKg)

	return nil
}

// GetByTicket retrieves one transaction by its ticket number.
func (s *transactionService) GetByTicket(ctx context.Context, ticketNumber string) (*domain.Transaction, error) {
	const op = "TransactionService.GetByTicket"

	row, err := s.queries.GetTransactionByTicket(ctx, ticketNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "transaction", ticketNumber)
		}
		s.logger.Error("failed to get transaction", "error", err, "op", op, "ticket", ticketNumber)
		return nil, domain.Internal(err, op, "Failed to retrieve transaction")
	}

	txn := repoTransactionToDomain(row)
	return &txn, nil
}

// List retrieves one page of transaction history, newest first.
func (s *transactionService) List(ctx context.Context, params domain.ListTransactionsParams) (*domain.ListTransactionsResult, error) {
	const op = "TransactionService.List"

	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, domain.Invalid(op, "status must be open or completed")
	}

	var status sql.NullString
	if params.Status != nil {
		status = sql.NullString{String: params.Status.String(), Valid: true}
	}
	var day sql.NullTime
	if params.Day != nil {
		day = sql.NullTime{Time: *params.Day, Valid: true}
	}

	rows, err := s.queries.ListTransactions(ctx, repository.ListTransactionsParams{
		Status: status,
		Day:    day,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to list transactions")
	}

	total, err := s.queries.CountTransactions(ctx, status, day)
	if err != nil {
		s.logger.Error("failed to count transactions", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to count transactions")
	}

	txns := make([]domain.Transaction, len(rows))
	for i, r := range rows {
		txns[i] = repoTransactionWithNamesToDomain(r)
	}

	return &domain.ListTransactionsResult{
		Transactions: txns,
		Total:        total,
		Limit:        params.Limit,
		Offset:       params.Offset,
	}, nil
}

// ListCompletedOn retrieves every transaction closed on the given day.
func (s *transactionService) ListCompletedOn(ctx context.Context, day time.Time) ([]domain.Transaction, error) {
	const op = "TransactionService.ListCompletedOn"

	rows, err := s.queries.ListTransactionsCompletedOn(ctx, day)
	if err != nil {
		s.logger.Error("failed to list completed transactions", "error", err, "op", op, "day", day.Format("2006-01-02"))
		return nil, domain.Internal(err, op, "Failed to list completed transactions")
	}

	txns := make([]domain.Transaction, len(rows))
	for i, r := range rows {
		txns[i] = repoTransactionWithNamesToDomain(r)
	}
	return txns, nil
}

// MaxTicketSequenceForDay returns the highest ticket sequence issued for the
// given day, zero if none.
func (s *transactionService) MaxTicketSequenceForDay(ctx context.Context, day time.Time) (int, error) {
	const op = "TransactionService.MaxTicketSequenceForDay"

	prefix := fmt.Sprintf("%s-%s-%%", weighing.TicketPrefix, day.Format("20060102"))
	max, err := s.queries.MaxTicketSequenceForDay(ctx, prefix)
	if err != nil {
		s.logger.Error("failed to query max ticket sequence", "error", err, "op", op)
		return 0, domain.Internal(err, op, "Failed to query ticket sequence")
	}
	return max, nil
}

// repoTransactionToDomain converts a repository Transaction to a domain Transaction.
func repoTransactionToDomain(rt repository.Transaction) domain.Transaction {
	return domain.Transaction{
		ID:            rt.ID,
		TicketNumber:  rt.TicketNumber,
		VehicleID:     rt.VehicleID,
		DriverID:      rt.DriverID,
		ProductID:     rt.ProductID,
		PartnerID:     fromNullUUID(rt.PartnerID),
		Direction:     domain.TransactionDirection(rt.Direction),
		Status:        domain.TransactionStatus(rt.Status),
		EntryWeightKg: rt.EntryWeightKg,
		ExitWeightKg:  fromNullFloat64(rt.ExitWeightKg),
		NetWeightKg:   fromNullFloat64(rt.NetWeightKg),
		Manual:        rt.Manual,
		WeighedInAt:   rt.WeighedInAt,
		WeighedOutAt:  fromNullTimePtr(rt.WeighedOutAt),
		CreatedAt:     rt.CreatedAt.Time,
		UpdatedAt:     rt.UpdatedAt.Time,
	}
}

// repoTransactionWithNamesToDomain converts a joined row to a domain Transaction.
func repoTransactionWithNamesToDomain(rt repository.TransactionWithNames) domain.Transaction {
	txn := repoTransactionToDomain(rt.Transaction)
	txn.VehiclePlate = rt.VehiclePlate
	txn.DriverName = rt.DriverName
	txn.ProductName = rt.ProductName
	txn.PartnerName = fromNullString(rt.PartnerName)
	return txn
}
