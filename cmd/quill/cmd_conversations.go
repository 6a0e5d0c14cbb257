package main

import (
	"context"
	"fmt"

	"github.com/socialquill/quill/src/localstate"
)

// ConversationsCmd groups conversation management subcommands
type ConversationsCmd struct {
	List   ConversationsListCmd   `cmd:"" default:"1" help:"List conversations"`
	New    ConversationsNewCmd    `cmd:"" help:"Create a conversation and make it active"`
	Show   ConversationsShowCmd   `cmd:"" help:"Print a conversation transcript"`
	Rename ConversationsRenameCmd `cmd:"" help:"Rename a conversation"`
	Delete ConversationsDeleteCmd `cmd:"" help:"Delete a conversation and its entries"`
}

type ConversationsListCmd struct{}

func (c *ConversationsListCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	sums, err := a.Manager.List(ctx)
	if err != nil {
		return err
	}

	active := a.Manager.Active()
	for _, s := range sums {
		marker := " "
		if s.ID == active {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  (%d entries)\n", marker, s.ID, s.Title, s.EntryCount)
	}
	return nil
}

type ConversationsNewCmd struct {
	Title string `arg:"" optional:"" help:"Conversation title"`
}

func (c *ConversationsNewCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Manager.Create(ctx, c.Title); err != nil {
		return err
	}
	a.RememberActive(ctx)
	fmt.Println(a.Manager.Active())
	return nil
}

type ConversationsShowCmd struct {
	ID string `arg:"" help:"Conversation id"`
}

func (c *ConversationsShowCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Manager.List(ctx); err != nil {
		return err
	}
	if err := a.Manager.Activate(ctx, c.ID); err != nil {
		return err
	}
	a.RememberActive(ctx)

	fmt.Print(renderTranscript(a.Manager.Store().Entries(), a.Manager.Controller().Live()))
	return nil
}

type ConversationsRenameCmd struct {
	ID    string `arg:"" help:"Conversation id"`
	Title string `arg:"" help:"New title"`
}

func (c *ConversationsRenameCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Manager.List(ctx); err != nil {
		return err
	}
	return a.Manager.Rename(ctx, c.ID, c.Title)
}

type ConversationsDeleteCmd struct {
	ID string `arg:"" help:"Conversation id"`
}

func (c *ConversationsDeleteCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Manager.List(ctx); err != nil {
		return err
	}
	if err := a.Manager.Delete(ctx, c.ID); err != nil {
		return err
	}
	if err := localstate.DeleteDraftsByConversation(ctx, a.Local.DB(), c.ID); err != nil {
		a.Logger.Warn("failed to clear drafts", "conversation_id", c.ID, "error", err)
	}
	a.RememberActive(ctx)
	return nil
}
