package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNoToken indicates the session token is missing.
	ErrNoToken = errors.New("session token is required")

	// ErrEmptyResult indicates the generation backend returned no content.
	ErrEmptyResult = errors.New("generation returned no content")
)

// ErrorResponse is the standard error envelope returned by the API:
// {"error":{"type":"...","message":"...","code":"..."}}.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// APIError represents an error response from the platform API.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Code       string `json:"code"`
	RequestID  string `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// IsAuthError returns true if this is an authentication error.
func (e *APIError) IsAuthError() bool {
	return e.StatusCode == http.StatusUnauthorized || e.Code == "invalid_token"
}

// GenerationError is a typed failure from the generation backend. It
// distinguishes the request being rejected up front from the upstream AI
// failing or producing nothing, because the caller reacts differently: a
// validation failure needs different inputs, the others can be retried
// as-is.
type GenerationError struct {
	Reason  string // "validation", "upstream", or "empty"
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s failure: %s", e.Reason, e.Message)
}

// Is lets errors.Is match an empty-result failure against ErrEmptyResult.
func (e *GenerationError) Is(target error) bool {
	return target == ErrEmptyResult && e.Reason == "empty"
}
