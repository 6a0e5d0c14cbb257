package conversation

import (
	"errors"
	"fmt"
)

var (
	// ErrConfirmationRequired indicates a destructive action was attempted
	// without the caller confirming it first.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrGenerationInFlight indicates a generation call is already
	// outstanding for the live tool instance.
	ErrGenerationInFlight = errors.New("generation already in flight")

	// ErrNoSuchEntry indicates the entry id is not present in the store.
	ErrNoSuchEntry = errors.New("no such entry")

	// ErrNotGenerative indicates the tool kind does not accept generation.
	ErrNotGenerative = errors.New("tool does not accept generation")

	// ErrNoActiveConversation indicates no conversation is loaded.
	ErrNoActiveConversation = errors.New("no active conversation")
)

// ValidationError is a pre-network rejection of a generation request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid request: field %s %s", e.Field, e.Message)
	}
	return fmt.Sprintf("invalid request: %s", e.Message)
}
