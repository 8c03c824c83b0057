package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ironaxle/weighstation/internal/repository"
)

// Job type constants - these must match the JobHandler.Type() values
const (
	JobTypeExportTransactions = "export_transactions"
)

// Priority constants for job scheduling
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// ExportTransactionsPayload is the payload for daily export jobs.
type ExportTransactionsPayload struct {
	// Day is the calendar day to export, formatted 2006-01-02.
	Day string `json:"day"`
}

// EnqueueOption is a functional option for customizing job enqueue parameters.
type EnqueueOption func(*repository.EnqueueJobParams)

// WithPriority sets the job priority.
func WithPriority(priority int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.Priority = priority
	}
}

// WithMaxAttempts sets the maximum number of retry attempts.
func WithMaxAttempts(attempts int32) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.MaxAttempts = attempts
	}
}

// WithDelay schedules the job to run after a delay.
func WithDelay(delay time.Duration) EnqueueOption {
	return func(p *repository.EnqueueJobParams) {
		p.ScheduledAt = time.Now().Add(delay)
	}
}

// EnqueueJob is a generic helper for enqueuing jobs with custom options.
func EnqueueJob(
	ctx context.Context,
	queries *repository.Queries,
	jobType string,
	payload interface{},
	opts ...EnqueueOption,
) (repository.Job, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return repository.Job{}, fmt.Errorf("marshal payload: %w", err)
	}

	params := repository.EnqueueJobParams{
		JobType:     jobType,
		Payload:     payloadJSON,
		Priority:    PriorityNormal,
		MaxAttempts: 3,
		ScheduledAt: time.Now(),
	}

	for _, opt := range opts {
		opt(&params)
	}

	job, err := queries.EnqueueJob(ctx, params)
	if err != nil {
		return repository.Job{}, fmt.Errorf("enqueue job: %w", err)
	}

	return job, nil
}

// EnqueueExportTransactions enqueues a job to export all transactions
// completed on the given day.
func EnqueueExportTransactions(
	ctx context.Context,
	queries *repository.Queries,
	day time.Time,
	opts ...EnqueueOption,
) (repository.Job, error) {
	payload := ExportTransactionsPayload{
		Day: day.Format("2006-01-02"),
	}

	return EnqueueJob(ctx, queries, JobTypeExportTransactions, payload, opts...)
}
