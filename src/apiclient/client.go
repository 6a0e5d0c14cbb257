// Package apiclient is the HTTP implementation of the conversation gateway:
// authenticated request/response calls against the content platform backend.
// The client performs exactly one attempt per call; retry policy, where one
// exists, belongs to the caller.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/socialquill/quill/src/conversation"
	"github.com/socialquill/quill/src/dubbing"
)

const (
	defaultBaseURL = "https://api.socialquill.io/v1"
	defaultTimeout = 30 * time.Second
)

var _ conversation.Gateway = (*Client)(nil)
var _ dubbing.Source = (*Client)(nil)

// Client is the platform API client.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new platform API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api_client")

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger,
	}
}

// ListConversations fetches the user's conversation summaries, newest first.
func (c *Client) ListConversations(ctx context.Context) ([]conversation.Summary, error) {
	var out struct {
		Conversations []conversation.Summary `json:"conversations"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out.Conversations, nil
}

// CreateConversation creates a conversation with the given title.
func (c *Client) CreateConversation(ctx context.Context, title string) (conversation.Summary, error) {
	req := map[string]string{"title": title}
	var out conversation.Summary
	if err := c.doJSON(ctx, http.MethodPost, "/conversations", req, &out); err != nil {
		return conversation.Summary{}, err
	}
	return out, nil
}

// DeleteConversation deletes a conversation and all of its entries.
func (c *Client) DeleteConversation(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/conversations/"+url.PathEscape(id), nil, nil)
}

// RenameConversation updates a conversation's title.
func (c *Client) RenameConversation(ctx context.Context, id, title string) error {
	req := map[string]string{"title": title}
	return c.doJSON(ctx, http.MethodPatch, "/conversations/"+url.PathEscape(id), req, nil)
}

// ListEntries fetches a conversation's entries in creation order.
func (c *Client) ListEntries(ctx context.Context, conversationID string) ([]conversation.Entry, error) {
	var out struct {
		Entries []conversation.Entry `json:"entries"`
	}
	path := "/conversations/" + url.PathEscape(conversationID) + "/entries"
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

// PostMessage posts a dialogue message and returns the persisted user entry
// paired with the assistant reply.
func (c *Client) PostMessage(ctx context.Context, conversationID, text string) (conversation.MessagePair, error) {
	req := map[string]string{"text": text}
	var out conversation.MessagePair
	path := "/conversations/" + url.PathEscape(conversationID) + "/messages"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return conversation.MessagePair{}, err
	}
	return out, nil
}

// CreateToolEntry creates a tool-instance entry and returns it with its
// server-assigned id.
func (c *Client) CreateToolEntry(ctx context.Context, conversationID string, kind conversation.ToolKind, label string) (conversation.Entry, error) {
	req := map[string]string{"kind": string(kind), "label": label}
	var out conversation.Entry
	path := "/conversations/" + url.PathEscape(conversationID) + "/tools"
	if err := c.doJSON(ctx, http.MethodPost, path, req, &out); err != nil {
		return conversation.Entry{}, err
	}
	return out, nil
}

// PatchToolEntry applies a partial update to a tool-instance entry.
func (c *Client) PatchToolEntry(ctx context.Context, entryID string, patch conversation.ToolEntryPatch) error {
	return c.doJSON(ctx, http.MethodPatch, "/entries/"+url.PathEscape(entryID), patch, nil)
}

// DeleteToolEntry permanently removes a tool-instance entry.
func (c *Client) DeleteToolEntry(ctx context.Context, entryID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/entries/"+url.PathEscape(entryID), nil, nil)
}

// InvokeGeneration runs one content generation and returns the produced
// bundle. Failures come back as *GenerationError; a 2xx response with no
// variations counts as an empty-result failure.
func (c *Client) InvokeGeneration(ctx context.Context, req conversation.GenerationRequest) (*conversation.Bundle, error) {
	logger := c.logger.With("method", "InvokeGeneration", "kind", req.Kind)
	logger.Debug("invoking generation", "platforms", req.Platforms)

	var out conversation.Bundle
	if err := c.doJSON(ctx, http.MethodPost, "/generations", req, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, generationErrorFrom(apiErr)
		}
		return nil, err
	}

	if len(out.Variations) == 0 {
		logger.Warn("generation returned no variations")
		return nil, &GenerationError{Reason: "empty", Message: "no variations produced"}
	}
	logger.Info("generation successful", "variations", len(out.Variations))
	return &out, nil
}

// TranslationJob fetches the current state of a video translation job.
func (c *Client) TranslationJob(ctx context.Context, jobID string) (dubbing.Job, error) {
	var out dubbing.Job
	if err := c.doJSON(ctx, http.MethodGet, "/translations/"+url.PathEscape(jobID), nil, &out); err != nil {
		return dubbing.Job{}, err
	}
	return out, nil
}

// StartTranslation submits a video for dubbing into the target language.
func (c *Client) StartTranslation(ctx context.Context, mediaRef, language string) (dubbing.Job, error) {
	req := map[string]string{"media_ref": mediaRef, "language": language}
	var out dubbing.Job
	if err := c.doJSON(ctx, http.MethodPost, "/translations", req, &out); err != nil {
		return dubbing.Job{}, err
	}
	return out, nil
}

// doJSON performs one request and decodes the JSON response into out when
// out is non-nil. Exactly one attempt, no retry.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	if c.config.Token == "" {
		return ErrNoToken
	}

	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Error("received error response", "method", method, "path", path, "status_code", resp.StatusCode)
		return c.handleError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// newRequest creates a new HTTP request with the appropriate headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	u := c.config.BaseURL + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// handleError processes error responses from the API.
func (c *Client) handleError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read error response: %w", err)
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			RequestID:  resp.Header.Get("X-Request-ID"),
		}
	}

	apiErr := errResp.Error
	apiErr.StatusCode = resp.StatusCode
	apiErr.RequestID = resp.Header.Get("X-Request-ID")
	return &apiErr
}

func generationErrorFrom(apiErr *APIError) error {
	switch apiErr.Type {
	case "validation":
		return &GenerationError{Reason: "validation", Message: apiErr.Message}
	case "empty_result":
		return &GenerationError{Reason: "empty", Message: apiErr.Message}
	default:
		return &GenerationError{Reason: "upstream", Message: apiErr.Message}
	}
}
