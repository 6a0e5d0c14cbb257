package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"github.com/socialquill/quill/src/app"
	"github.com/socialquill/quill/src/config"
)

// CLI represents the main CLI structure
type CLI struct {
	Token    string `env:"QUILL_TOKEN" help:"Platform session token"`
	BaseURL  string `help:"Custom API base URL"`
	Config   string `help:"Path to config file"`
	LogLevel string `default:"warn" help:"Log level"`

	Conversations ConversationsCmd `cmd:"" help:"Manage conversations"`
	Send          SendCmd          `cmd:"" help:"Send a dialogue message"`
	Tool          ToolCmd          `cmd:"" help:"Manage embedded tool sessions"`
	Dub           DubCmd           `cmd:"" help:"Video dubbing jobs"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("quill"),
		kong.Description("Client for the quill social content platform"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)

	err := ctx.Run(&cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// buildApp loads configuration and wires the application for a command run.
func buildApp(ctx context.Context, cli *CLI) (*app.App, error) {
	logger := createCLILogger(cli.LogLevel)

	path := cli.Config
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	cfg, err := config.NewLoader(afero.NewOsFs()).Load(path)
	if err != nil {
		return nil, err
	}
	if cli.BaseURL != "" {
		cfg.API.BaseURL = cli.BaseURL
	}

	return app.New(ctx, cfg, app.Options{
		Token:  cli.Token,
		Logger: logger,
	})
}
