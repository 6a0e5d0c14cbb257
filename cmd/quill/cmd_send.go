package main

import (
	"context"
	"strings"
)

// SendCmd posts a dialogue message in the active conversation and prints
// the assistant reply.
type SendCmd struct {
	Text []string `arg:"" help:"The message text to send"`
}

func (s *SendCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Resume(ctx); err != nil {
		return err
	}

	if err := a.Manager.PostMessage(ctx, strings.Join(s.Text, " ")); err != nil {
		return err
	}
	a.RememberActive(ctx)

	entries := a.Manager.Store().Entries()
	if len(entries) > 0 {
		printEntry(entries[len(entries)-1], a.Manager.Controller().Live())
	}
	return nil
}
