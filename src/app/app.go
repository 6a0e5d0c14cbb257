package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/socialquill/quill/src/apiclient"
	"github.com/socialquill/quill/src/config"
	"github.com/socialquill/quill/src/conversation"
	"github.com/socialquill/quill/src/localstate"
)

// App represents the main application with all services
type App struct {
	Gateway  *apiclient.Client
	Local    *localstate.DB
	Registry *conversation.Registry
	Manager  *conversation.Manager
	Logger   *slog.Logger
	Config   *config.Config
}

// Options holds what New needs beyond the loaded config.
type Options struct {
	Token  string
	Logger *slog.Logger
}

// New creates a new App instance with all services initialized
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	token := opts.Token
	if token == "" && cfg.API.TokenEnvVar != "" {
		token = os.Getenv(cfg.API.TokenEnvVar)
	}

	dbPath := filepath.Join(cfg.Data.Directory, "localstate.db")
	if cfg.Data.Directory == "" {
		dbPath = config.GetDefaultStoragePaths().DatabasePath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	local, err := localstate.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open local state: %w", err)
	}

	gateway := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   token,
		Timeout: cfg.API.Timeout,
		Logger:  logger,
	})

	registry := conversation.NewRegistry()

	return &App{
		Gateway:  gateway,
		Local:    local,
		Registry: registry,
		Manager:  conversation.NewManager(gateway, registry, logger),
		Logger:   logger,
		Config:   cfg,
	}, nil
}

// Resume loads the conversation list and reactivates the conversation the
// user left off in, when it still exists.
func (a *App) Resume(ctx context.Context) error {
	if _, err := a.Manager.List(ctx); err != nil {
		return err
	}

	state, err := localstate.GetClientState(ctx, a.Local.DB())
	if err != nil {
		a.Logger.Warn("failed to read client state", "error", err)
		return nil
	}
	if state == nil || state.CurrentConversationID == nil {
		return nil
	}
	if *state.CurrentConversationID == a.Manager.Active() {
		return nil
	}
	if err := a.Manager.Activate(ctx, *state.CurrentConversationID); err != nil {
		// The remembered conversation may have been deleted elsewhere.
		a.Logger.Debug("could not resume conversation", "conversation_id", *state.CurrentConversationID, "error", err)
	}
	return nil
}

// RememberActive persists the active conversation id for the next run.
func (a *App) RememberActive(ctx context.Context) {
	active := a.Manager.Active()
	state := &localstate.ClientState{}
	if active != "" {
		state.CurrentConversationID = &active
	}
	if err := localstate.SaveClientState(ctx, a.Local.DB(), state); err != nil {
		a.Logger.Warn("failed to persist client state", "error", err)
	}
}

// Close drains outstanding background persists, then closes all resources
// held by the app. The drain is bounded by the persists' own timeouts;
// without it a short-lived CLI run would kill those writes mid-flight.
func (a *App) Close() error {
	if a.Manager != nil {
		a.Manager.Wait()
	}
	if a.Local != nil {
		return a.Local.Close()
	}
	return nil
}
