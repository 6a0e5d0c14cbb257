package main

import (
	"context"
	"fmt"

	"github.com/socialquill/quill/src/app"
	"github.com/socialquill/quill/src/conversation"
	"github.com/socialquill/quill/src/localstate"
)

// ToolCmd groups tool session subcommands
type ToolCmd struct {
	Invoke   ToolInvokeCmd   `cmd:"" help:"Embed a new tool instance in the active conversation"`
	Generate ToolGenerateCmd `cmd:"" help:"Run a generation for a tool instance"`
	Close    ToolCloseCmd    `cmd:"" help:"Minimize a tool instance, keeping its results"`
	Reopen   ToolReopenCmd   `cmd:"" help:"Reopen a minimized tool instance"`
	Delete   ToolDeleteCmd   `cmd:"" help:"Permanently delete a tool instance"`
	Kinds    ToolKindsCmd    `cmd:"" help:"List available tool kinds"`
}

func resumeApp(ctx context.Context, cli *CLI) (*app.App, error) {
	a, err := buildApp(ctx, cli)
	if err != nil {
		return nil, err
	}
	if err := a.Resume(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

type ToolInvokeCmd struct {
	Kind  string `arg:"" help:"Tool kind (post_generator, video_dubber, ad_generator)"`
	Label string `help:"Label shown in the conversation stream"`
}

func (t *ToolInvokeCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := resumeApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	kind := conversation.ToolKind(t.Kind)
	if !a.Registry.Known(kind) {
		return fmt.Errorf("unknown tool kind %q", t.Kind)
	}
	label := t.Label
	if label == "" {
		label = a.Registry.Lookup(kind).Title
	}

	id, err := a.Manager.Controller().Invoke(ctx, kind, label)
	if err != nil {
		return err
	}
	fmt.Println(id)
	return nil
}

type ToolGenerateCmd struct {
	EntryID   string   `arg:"" help:"Tool entry id"`
	Prompt    string   `help:"What to generate"`
	Platforms []string `help:"Target platforms"`
	Style     string   `help:"Tone of voice"`
	Language  string   `help:"Content language"`
	Audience  string   `help:"Intended audience"`
	SaveDraft bool     `help:"Save the form as a draft instead of generating"`
}

func (t *ToolGenerateCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := resumeApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	entry, ok := a.Manager.Store().Get(t.EntryID)
	if !ok {
		return fmt.Errorf("no tool entry %s in the active conversation", t.EntryID)
	}
	conversationID := a.Manager.Active()

	// An empty form restores the saved draft, if any.
	if t.Prompt == "" && len(t.Platforms) == 0 {
		draft, derr := localstate.GetDraft(ctx, a.Local.DB(), conversationID, string(entry.Kind))
		if derr != nil {
			a.Logger.Warn("failed to load draft", "error", derr)
		} else if draft != nil {
			t.Prompt = draft.Prompt
			t.Platforms = draft.Platforms
			if t.Style == "" {
				t.Style = draft.Style
			}
			if t.Language == "" {
				t.Language = draft.Language
			}
			if t.Audience == "" {
				t.Audience = draft.Audience
			}
		}
	}

	if t.SaveDraft {
		return localstate.SaveDraft(ctx, a.Local.DB(), &localstate.Draft{
			ConversationID: conversationID,
			Kind:           string(entry.Kind),
			Prompt:         t.Prompt,
			Platforms:      t.Platforms,
			Style:          t.Style,
			Language:       t.Language,
			Audience:       t.Audience,
		})
	}

	req := conversation.GenerationRequest{
		Kind:      entry.Kind,
		Prompt:    t.Prompt,
		Platforms: t.Platforms,
		Style:     t.Style,
		Language:  t.Language,
		Audience:  t.Audience,
	}
	if err := a.Manager.Controller().Generate(ctx, t.EntryID, req); err != nil {
		return err
	}

	// The submitted draft is no longer in progress.
	if err := localstate.DeleteDraft(ctx, a.Local.DB(), conversationID, string(entry.Kind)); err != nil {
		a.Logger.Warn("failed to clear draft", "error", err)
	}

	if updated, ok := a.Manager.Store().Get(t.EntryID); ok && updated.Payload != nil {
		fmt.Print(renderBundle(updated.Payload))
	}
	return nil
}

type ToolCloseCmd struct {
	EntryID string `arg:"" help:"Tool entry id"`
}

func (t *ToolCloseCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := resumeApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Manager.Controller().Close(ctx, t.EntryID)
}

type ToolReopenCmd struct {
	EntryID string `arg:"" help:"Tool entry id"`
}

func (t *ToolReopenCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := resumeApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Manager.Controller().Reopen(ctx, t.EntryID); err != nil {
		return err
	}
	if e, ok := a.Manager.Store().Get(t.EntryID); ok && e.Payload != nil {
		fmt.Print(renderBundle(e.Payload))
	}
	return nil
}

type ToolDeleteCmd struct {
	EntryID string `arg:"" help:"Tool entry id"`
	Yes     bool   `help:"Confirm the deletion"`
}

func (t *ToolDeleteCmd) Run(cli *CLI) error {
	if !t.Yes {
		return fmt.Errorf("deleting a tool instance is irreversible; pass --yes to confirm")
	}

	ctx := context.Background()
	a, err := resumeApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Manager.Controller().Delete(ctx, t.EntryID, true)
}

type ToolKindsCmd struct{}

func (t *ToolKindsCmd) Run(cli *CLI) error {
	registry := conversation.NewRegistry()
	for _, kind := range registry.Kinds() {
		c := registry.Lookup(kind)
		fmt.Printf("%s\t%s\n", kind, c.Title)
	}
	return nil
}
