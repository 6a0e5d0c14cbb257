package apiclient

import (
	"log/slog"
	"time"
)

// Config holds configuration for the platform API client.
type Config struct {
	BaseURL string        // Base URL for the platform API
	Token   string        // Bearer session token from the auth collaborator
	Logger  *slog.Logger  // Logger for debugging
	Timeout time.Duration // HTTP timeout
}
