package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getfitted/fitted/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// APIError represents an error response body.
type APIError struct {
	Message string `json:"message"`
}

// extractQueryStringValueToInt extracts a query string value and converts it
// to an int if it is not empty. If the value is empty, it returns 0.
func extractQueryStringValueToInt(r *http.Request, param string) (int, error) {
	p := r.URL.Query().Get(param)
	if p == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(p)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", param, p)
	}
	return value, nil
}

// encodeJSON encodes data into JSON and writes it to the response writer.
func encodeJSON(w http.ResponseWriter, data interface{}) error {
	return json.NewEncoder(w).Encode(data)
}

// decodeJSON decodes a JSON request body into the provided data struct.
func decodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// renderError renders an error response, mapping domain sentinel errors to
// HTTP status codes.
func renderError(w http.ResponseWriter, err error, status int) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrBadRequest):
		status = http.StatusBadRequest
	}
	if status != http.StatusNotFound {
		// Don't log not found errors
		log.Error(err)
	}
	http.Error(w, err.Error(), status)
}

// parseUUIDFromURL parses a UUID from a URL parameter. If the UUID is invalid,
// an error is rendered and uuid.Nil is returned.
func parseUUIDFromURL(r *http.Request, w http.ResponseWriter, paramName string) uuid.UUID {
	uuidStr := chi.URLParam(r, paramName)
	parsed, err := uuid.Parse(uuidStr)
	if err != nil {
		renderError(
			w,
			fmt.Errorf("unable to parse %s: %w", paramName, err),
			http.StatusBadRequest,
		)
		return uuid.Nil
	}
	return parsed
}
