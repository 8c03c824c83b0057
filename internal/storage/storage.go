// Package storage provides archive storage for generated transaction exports.
//
// Two implementations exist: LocalStorage writes to a directory on the
// station host, S3Storage writes to any S3-compatible bucket (AWS, MinIO,
// R2). Daily export jobs pick one based on configuration.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// =============================================================================
// Interface Definition
// =============================================================================

// Storage defines the interface for export archive operations.
// All methods are context-aware for timeout and cancellation support.
type Storage interface {
	// Put stores data at the specified key. Returns ErrKeyExists if the key
	// is taken and overwrite is disabled.
	Put(ctx context.Context, key string, data io.Reader, opts PutOptions) error

	// Get retrieves the data at the specified key. The caller must close the
	// reader. Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)

	// Delete removes the object at the specified key. Idempotent.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists at the specified key.
	Exists(ctx context.Context, key string) (bool, error)
}

// =============================================================================
// Data Types
// =============================================================================

// PutOptions configures how an object is stored.
type PutOptions struct {
	// ContentType specifies the MIME type of the object. Exports default to
	// text/csv when empty.
	ContentType string

	// Overwrite allows replacing an existing object at the same key. Export
	// re-runs set this so a corrected day replaces the original file.
	Overwrite bool
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string    // Object key/path
	Size         int64     // Size in bytes
	ContentType  string    // MIME type
	LastModified time.Time // Last modification time
	ETag         string    // Entity tag (if available)
}

// =============================================================================
// Configuration Types
// =============================================================================

// LocalConfig holds configuration for local filesystem storage.
type LocalConfig struct {
	// BasePath is the root directory where exports are stored.
	// Example: "./exports" or "/var/lib/weighstation/exports"
	BasePath string
}

// S3Config holds configuration for S3-compatible object storage.
type S3Config struct {
	// Endpoint overrides the S3 endpoint URL for non-AWS providers
	// (MinIO, R2). Empty means the AWS default for Region.
	Endpoint string

	// AccessKeyID is the API access key ID.
	AccessKeyID string

	// SecretAccessKey is the API secret key.
	SecretAccessKey string

	// BucketName is the bucket to write exports into.
	BucketName string

	// Region is the AWS region (or "auto" for R2-style providers).
	Region string
}

// =============================================================================
// Provider Constants
// =============================================================================

const (
	// ProviderLocal identifies the local filesystem storage provider.
	ProviderLocal = "local"

	// ProviderS3 identifies the S3-compatible storage provider.
	ProviderS3 = "s3"
)

// =============================================================================
// Key Generation
// =============================================================================

// ExportKey generates the storage key for a daily transaction export.
// Format: exports/{YYYY}/{MM}/transactions-{YYYY-MM-DD}.csv
//
// The key is deterministic per day so re-running an export replaces the
// previous file instead of accumulating duplicates.
func ExportKey(day time.Time) string {
	return fmt.Sprintf("exports/%04d/%02d/transactions-%s.csv",
		day.Year(), day.Month(), day.Format("2006-01-02"))
}
