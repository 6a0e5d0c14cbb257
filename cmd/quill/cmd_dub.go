package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/socialquill/quill/src/dubbing"
)

// DubCmd groups video dubbing subcommands
type DubCmd struct {
	Start  DubStartCmd  `cmd:"" help:"Submit a video for dubbing"`
	Status DubStatusCmd `cmd:"" help:"Show or follow a dubbing job"`
}

type DubStartCmd struct {
	MediaRef string `arg:"" help:"Reference of the uploaded video"`
	Language string `arg:"" help:"Target language code"`
}

func (d *DubStartCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	job, err := a.Gateway.StartTranslation(ctx, d.MediaRef, d.Language)
	if err != nil {
		return err
	}
	fmt.Println(job.ID)
	return nil
}

type DubStatusCmd struct {
	JobID string `arg:"" help:"Dubbing job id"`
	Watch bool   `help:"Poll until the job finishes"`
}

func (d *DubStatusCmd) Run(cli *CLI) error {
	ctx := context.Background()
	a, err := buildApp(ctx, cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if !d.Watch {
		job, err := a.Gateway.TranslationJob(ctx, d.JobID)
		if err != nil {
			return err
		}
		printJob(job)
		return nil
	}

	// Ctrl-C stops watching; the remote job keeps running.
	wctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	// Poll logs go to the log file so they do not interleave with the
	// progress lines on stdout.
	poller := dubbing.NewPoller(a.Gateway, a.Config.Client.PollInterval, createFileLogger(cli.LogLevel), func(job dubbing.Job) {
		printJob(job)
	})
	job, err := poller.Run(wctx, d.JobID)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	if err != nil {
		return err
	}
	if job.Status == dubbing.StatusFailed {
		return fmt.Errorf("dubbing job failed: %s", job.Error)
	}
	return nil
}

func printJob(job dubbing.Job) {
	if job.OutputURL != "" {
		fmt.Printf("%s\t%s\t%d%%\t%s\n", job.ID, job.Status, job.Progress, job.OutputURL)
		return
	}
	fmt.Printf("%s\t%s\t%d%%\n", job.ID, job.Status, job.Progress)
}
