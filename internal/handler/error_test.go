package handler

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ironaxle/weighstation/internal/domain"
)

// =============================================================================
// Error Response Tests - Security Focus
// =============================================================================

func TestErrorCodeToHTTPStatus(t *testing.T) {
	testCases := []struct {
		code     string
		expected int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EINVALIDDATA, http.StatusBadRequest},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.EUNSTABLEWEIGHT, http.StatusConflict},
		{domain.EBUSINESSRULE, http.StatusUnprocessableEntity},
		{domain.EDEVICEDISCONNECTED, http.StatusServiceUnavailable},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{domain.EUNKNOWN, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		if got := ErrorCodeToHTTPStatus(tc.code); got != tc.expected {
			t.Errorf("code %q: expected %d, got %d", tc.code, tc.expected, got)
		}
	}
}

func TestErrorResponse_InternalErrorHidesDetails(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Create an internal error wrapping a database error
	dbErr := &mockDatabaseError{message: "pgx: relation \"transactions\" does not exist"}
	internalErr := domain.Internal(dbErr, "TransactionService.CreateWeighIn", "Database query failed")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, r, logger, internalErr)
	})

	req := httptest.NewRequest("POST", "/api/weighing/capture", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	body := rec.Body.String()

	// Should NOT contain database error details
	if strings.Contains(body, "pgx:") {
		t.Errorf("response exposes database error: %s", body)
	}
	if strings.Contains(body, "relation") {
		t.Errorf("response exposes database schema: %s", body)
	}
	if strings.Contains(body, "TransactionService") {
		t.Errorf("response exposes internal operation: %s", body)
	}

	// Should return generic message
	if !strings.Contains(body, "internal error") {
		t.Errorf("response should contain generic internal error message, got: %s", body)
	}
}

func TestErrorResponse_WeighingFailureKindsKeepMessages(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	testCases := []struct {
		name     string
		err      error
		expected int
		message  string
	}{
		{
			name:     "unstable weight",
			err:      domain.UnstableWeight("Engine.CaptureWeighIn", "Weight reading is not stable yet"),
			expected: http.StatusConflict,
			message:  "not stable",
		},
		{
			name:     "business rule",
			err:      domain.BusinessRule("Engine.StartWeighOut", "Another weighing session is in progress"),
			expected: http.StatusUnprocessableEntity,
			message:  "in progress",
		},
		{
			name:     "device disconnected",
			err:      domain.DeviceDisconnected("Engine.UpdateWeight", "Scale connection lost"),
			expected: http.StatusServiceUnavailable,
			message:  "connection lost",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ErrorResponse(w, r, logger, tc.err)
			})

			req := httptest.NewRequest("POST", "/api/weighing/capture", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("expected status %d, got %d", tc.expected, rec.Code)
			}

			body := rec.Body.String()
			// Operator-facing failure messages pass through untouched
			if !strings.Contains(body, tc.message) {
				t.Errorf("response should contain %q, got: %s", tc.message, body)
			}
			// The engine op never leaks to the client
			if strings.Contains(body, "Engine.") {
				t.Errorf("response exposes internal operation: %s", body)
			}
		})
	}
}

func TestErrorResponse_NotFoundDoesNotExposeInternals(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	notFoundErr := domain.NotFound("TransactionService.GetByTicket", "transaction", "WB-20260314-0042")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, r, logger, notFoundErr)
	})

	req := httptest.NewRequest("GET", "/api/transactions/WB-20260314-0042", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	body := rec.Body.String()

	if strings.Contains(body, "Service") {
		t.Errorf("response exposes service name: %s", body)
	}
	if !strings.Contains(body, "not found") {
		t.Errorf("response should indicate resource not found: %s", body)
	}
}

func TestErrorResponse_UnwrappedErrorReturnsGeneric(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	rawErr := &mockDatabaseError{message: "FATAL: password authentication failed for user \"postgres\""}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(w, r, logger, rawErr)
	})

	req := httptest.NewRequest("GET", "/api/transactions", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}

	body := rec.Body.String()

	if strings.Contains(body, "FATAL") {
		t.Errorf("response exposes raw error: %s", body)
	}
	if strings.Contains(body, "password") {
		t.Errorf("response exposes password-related error: %s", body)
	}
	if !strings.Contains(body, "internal error") {
		t.Errorf("response should contain generic message, got: %s", body)
	}
}

func TestValidationErrorResponse_DoesNotExposeOperationName(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ve := domain.NewValidationError("VehicleService.Create", "plate_number", "Plate number is required")

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ValidationErrorResponse(w, r, logger, ve)
	})

	req := httptest.NewRequest("POST", "/api/vehicles", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}

	body := rec.Body.String()

	if strings.Contains(body, "VehicleService") {
		t.Errorf("response exposes internal operation name: %s", body)
	}
	if !strings.Contains(body, "plate_number") {
		t.Errorf("response should contain field name: %s", body)
	}
	if !strings.Contains(body, "Plate number is required") {
		t.Errorf("response should contain field message: %s", body)
	}
}

// mockDatabaseError simulates a database error for testing
type mockDatabaseError struct {
	message string
}

func (e *mockDatabaseError) Error() string {
	return e.message
}
