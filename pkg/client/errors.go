package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an error response body is read when
// extracting a message.
const maxErrorBody = 64 * 1024

// ErrNoBody is returned when a streaming response carries no readable body.
var ErrNoBody = errors.New("response has no body stream")

// APIError is a non-2xx response from the Prep API, normalized to a
// human-readable message.
type APIError struct {
	// Status is the HTTP status code of the response.
	Status int

	// Message is the "message" field of the JSON error body when present,
	// otherwise a generic message synthesized from the status code.
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// readAPIError drains resp and builds an *APIError from it.
// The body is expected to be JSON of the form {"message": "..."}; an absent
// or unparsable body falls back to a generic status-code message.
func readAPIError(resp *http.Response) *APIError {
	var raw []byte
	if resp.Body != nil {
		raw, _ = io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	}
	return newAPIError(resp.StatusCode, raw)
}

func newAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &APIError{Status: status, Message: payload.Message}
	}

	return &APIError{
		Status:  status,
		Message: fmt.Sprintf("request failed (status %d)", status),
	}
}
