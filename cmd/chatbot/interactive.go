package main

import (
	"context"
	"strings"

	"chatbot-cli/internal/agent/backend"
	"chatbot-cli/internal/attachment"
	"chatbot-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &rootArgs{}
	var imagePath string
	var copyable bool

	cmd := &cobra.Command{
		Use:   "chatbot [prompt]",
		Short: "Terminal chat client for Gemini and compatible backends",
		Long: `Chat with a language model from the terminal. Text and images are sent
together with the whole conversation so far.

Examples:
  # Start the interactive client
  chatbot

  # Start with a first message and an image attached
  chatbot --image ./cat.png "What breed is this?"

  # One-shot reply on stdout
  chatbot exec "Summarise the plot of Hamlet"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), root, imagePath, copyable, args)
		},
	}
	root.bind(cmd)
	cmd.Flags().StringVarP(&imagePath, "image", "i", "", "Attach an image to the first message")
	cmd.Flags().BoolVar(&copyable, "no-alt-screen", false, "Keep the transcript in the normal terminal buffer")

	cmd.AddCommand(newExecCmd(root), newConfigCmd(root), newPingCmd(root))
	return cmd
}

func runInteractive(ctx context.Context, root *rootArgs, imagePath string, copyable bool, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	client, err := backend.New(ctx, cfg, backend.Options{})
	if err != nil {
		return err
	}

	var initial *attachment.Attachment
	if strings.TrimSpace(imagePath) != "" {
		att, err := loadImage(ctx, imagePath, "")
		if err != nil {
			return err
		}
		initial = &att
	}

	result, err := tui.Run(tui.Options{
		Context:           ctx,
		Config:            cfg,
		Client:            client,
		InitialPrompt:     strings.Join(args, " "),
		InitialAttachment: initial,
		ConfigPath:        root.configPath(),
		AdjustConfig:      root.apply,
		CopyableOutput:    copyable,
	})
	if err != nil {
		return err
	}
	log.WithField("turns", len(result.History)).Infof("session ended")
	return nil
}
