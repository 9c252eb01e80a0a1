package main

import (
	"context"
	"strings"

	"ihint/internal/cli"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the persona agent a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			return oneShot(cmd, stream,
				func(ctx context.Context, a *app) (string, error) {
					return a.chat.Ask(ctx, question)
				},
				func(ctx context.Context, a *app, p *cli.TokenPrinter) (string, error) {
					return a.chat.AskStream(ctx, question, p)
				})
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "Print tokens as they are generated")
	return cmd
}

func fbfsCmd() *cobra.Command {
	var stream bool

	cmd := &cobra.Command{
		Use:   "fbfs [fish_bigger] [fish_smaller]",
		Short: "Generate a logic chain from one claim to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bigger, smaller := args[0], args[1]
			return oneShot(cmd, stream,
				func(ctx context.Context, a *app) (string, error) {
					return a.fbfs.Generate(ctx, bigger, smaller)
				},
				func(ctx context.Context, a *app, p *cli.TokenPrinter) (string, error) {
					return a.fbfs.GenerateStream(ctx, bigger, smaller, p)
				})
		},
	}

	cmd.Flags().BoolVar(&stream, "stream", false, "Print tokens as they are generated")
	return cmd
}

func oneShot(
	cmd *cobra.Command,
	stream bool,
	run func(ctx context.Context, a *app) (string, error),
	runStream func(ctx context.Context, a *app, p *cli.TokenPrinter) (string, error),
) error {
	ctx, stop := signalContext()
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	writer := cli.NewStreamingWriter(cmd.OutOrStdout())
	writer.SetColorMode(a.cfg.Log.Color && !noColor)

	if !stream {
		result, err := run(ctx, a)
		if err != nil {
			return err
		}
		writer.WriteLine(result)
		return nil
	}

	printer := cli.NewTokenPrinter(writer, cli.ColorGreen)
	result, err := runStream(ctx, a, printer)
	printer.Done()
	if err != nil {
		return err
	}
	if printer.Tokens() == 0 {
		writer.WriteLine(result)
	}
	return nil
}
