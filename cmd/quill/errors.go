package main

import (
	"context"
	"errors"

	"github.com/socialquill/quill/src/apiclient"
	"github.com/socialquill/quill/src/conversation"
)

// Exit codes following standard conventions
const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitUsage       = 2
	ExitAuth        = 4
	ExitGeneration  = 6
	ExitInterrupted = 8
)

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var verr *conversation.ValidationError
	var gerr *apiclient.GenerationError
	var aerr *apiclient.APIError

	switch {
	case errors.Is(err, apiclient.ErrNoToken):
		return ExitAuth
	case errors.As(err, &aerr) && aerr.IsAuthError():
		return ExitAuth
	case errors.As(err, &verr),
		errors.Is(err, conversation.ErrConfirmationRequired),
		errors.Is(err, conversation.ErrNoSuchEntry),
		errors.Is(err, conversation.ErrNotGenerative):
		return ExitUsage
	case errors.As(err, &gerr):
		return ExitGeneration
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitError
	}
}
