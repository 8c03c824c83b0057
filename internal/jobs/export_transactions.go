// Package jobs contains background job handlers executed by the worker.
package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironaxle/weighstation/internal/export"
	"github.com/ironaxle/weighstation/internal/metrics"
	"github.com/ironaxle/weighstation/internal/service"
	"github.com/ironaxle/weighstation/internal/storage"
	"github.com/ironaxle/weighstation/internal/worker"
)

// ExportTransactionsHandler renders one day's completed transactions to CSV
// and archives the file in export storage.
type ExportTransactionsHandler struct {
	transactions service.TransactionService
	store        storage.Storage
	logger       *slog.Logger
}

// NewExportTransactionsHandler creates the daily export job handler.
func NewExportTransactionsHandler(
	transactions service.TransactionService,
	store storage.Storage,
	logger *slog.Logger,
) *ExportTransactionsHandler {
	return &ExportTransactionsHandler{
		transactions: transactions,
		store:        store,
		logger:       logger,
	}
}

// Type returns the job type identifier.
func (h *ExportTransactionsHandler) Type() string {
	return worker.JobTypeExportTransactions
}

// Handle generates and stores the export. A malformed payload is permanent;
// storage and database failures are retryable.
func (h *ExportTransactionsHandler) Handle(ctx context.Context, payload []byte) error {
	var p worker.ExportTransactionsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return worker.NewPermanentError(fmt.Errorf("unmarshal payload: %w", err))
	}

	day, err := time.Parse("2006-01-02", p.Day)
	if err != nil {
		return worker.NewPermanentError(fmt.Errorf("invalid export day %q: %w", p.Day, err))
	}

	transactions, err := h.transactions.ListCompletedOn(ctx, day)
	if err != nil {
		metrics.ExportsGenerated.WithLabelValues("failed").Inc()
		return fmt.Errorf("list transactions for %s: %w", p.Day, err)
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, transactions); err != nil {
		metrics.ExportsGenerated.WithLabelValues("failed").Inc()
		return fmt.Errorf("render csv for %s: %w", p.Day, err)
	}

	key := storage.ExportKey(day)
	err = h.store.Put(ctx, key, &buf, storage.PutOptions{
		ContentType: "text/csv",
		Overwrite:   true,
	})
	if err != nil {
		metrics.ExportsGenerated.WithLabelValues("failed").Inc()
		return fmt.Errorf("store export %s: %w", key, err)
	}

	h.logger.Info("transaction export archived",
		"day", p.Day,
		"key", key,
		"transaction_count", len(transactions),
	)
	metrics.ExportsGenerated.WithLabelValues("completed").Inc()

	return nil
}
