package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"chatbot-cli/internal/agent"
	"chatbot-cli/internal/agent/backend"
	"chatbot-cli/internal/conversation"

	"github.com/spf13/cobra"
)

func newPingCmd(root *rootArgs) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured backend answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runPing(ctx, root, timeout, cmd.OutOrStdout())
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	return cmd
}

func runPing(ctx context.Context, root *rootArgs, timeout time.Duration, out io.Writer) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := agent.CheckReachable(ctx, backend.BaseURL(cfg)); err != nil {
		return err
	}

	client, err := backend.New(ctx, cfg, backend.Options{})
	if err != nil {
		return err
	}
	start := time.Now()
	got, err := client.Generate(ctx, []conversation.Turn{{
		Role:  conversation.RoleUser,
		Parts: []conversation.Part{conversation.TextPart("ping")},
	}})
	if err != nil {
		return err
	}
	info := client.Info()
	_, err = fmt.Fprintf(out, "ok: %s · %s · %s\n%s\n", info.Provider, info.Model, time.Since(start).Round(time.Millisecond), got)
	return err
}
