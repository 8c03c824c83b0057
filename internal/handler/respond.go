package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/ironaxle/weighstation/internal/domain"
)

// maxRequestBody bounds JSON request bodies. Weighing commands are tiny.
const maxRequestBody = 1 << 20

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	const op = "handler.decodeJSON"

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Invalid(op, "Invalid JSON request body")
	}
	return nil
}

// pathUUID parses a UUID path value, returning a not-found error on mismatch
// so malformed IDs and missing rows look the same to the client.
func pathUUID(r *http.Request, name, resource string) (uuid.UUID, error) {
	const op = "handler.pathUUID"

	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NotFound(op, resource, raw)
	}
	return id, nil
}
