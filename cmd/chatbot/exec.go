package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"chatbot-cli/internal/agent/backend"
	"chatbot-cli/internal/chat"
	"chatbot-cli/internal/i18n"
	"chatbot-cli/internal/render"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultExecWidth = 80

type execArgs struct {
	image string
	json  bool
}

// execResult 是 --json 的输出。
type execResult struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Reply    string `json:"reply,omitempty"`
	Error    string `json:"error,omitempty"`
	Kind     string `json:"kind,omitempty"`
}

func newExecCmd(root *rootArgs) *cobra.Command {
	opts := &execArgs{}
	cmd := &cobra.Command{
		Use:   "exec [prompt]",
		Short: "Send one message and print the reply",
		Long: `Send one message and print the reply. Use "-" to read the prompt from stdin.
The exit status is 1 when the request fails.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runExec(ctx, root, opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.image, "image", "i", "", "Attach an image")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	return cmd
}

func runExec(ctx context.Context, root *rootArgs, opts *execArgs, args []string, in io.Reader, out, errOut io.Writer) error {
	prompt := strings.TrimSpace(strings.Join(args, " "))
	if prompt == "-" {
		data, err := io.ReadAll(in)
		if err != nil {
			return fmt.Errorf("read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	lang := i18n.Normalize(cfg.Language)

	input := chat.PendingInput{Text: prompt}
	if strings.TrimSpace(opts.image) != "" {
		att, err := loadImage(ctx, opts.image, "")
		if err != nil {
			return err
		}
		input.Attachment = &att
	}
	if input.Empty() {
		return fmt.Errorf("%w: pass a prompt, \"-\" or --image", chat.ErrEmptyInput)
	}

	client, err := backend.New(ctx, cfg, backend.Options{})
	if err != nil {
		return err
	}
	coord := chat.NewCoordinator(nil, client)
	coord.SetErrorPrefix(i18n.T(lang, i18n.KeyErrorPrefix))

	// 与界面一致：先占位，再用结果替换
	transcript := render.NewRenderer()
	id := transcript.RenderBotPlaceholder()
	outcome := coord.Send(ctx, id, input)
	chat.Resolve(transcript, outcome)

	info := client.Info()
	switch {
	case opts.json:
		res := execResult{Provider: info.Provider, Model: info.Model, Reply: outcome.Text}
		if outcome.Failed() {
			res.Error = outcome.Err.Error()
			res.Kind = chat.Kind(outcome.Err)
		}
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(res); err != nil {
			return err
		}
	case isTerminal(out):
		for _, line := range transcript.Lines(terminalWidth(out), 0) {
			fmt.Fprintln(out, line)
		}
	case outcome.Failed():
		fmt.Fprintln(errOut, strings.Join(render.PlainLines(outcome.HTML, 0), "\n"))
	default:
		fmt.Fprintln(out, outcome.Text)
	}

	if outcome.Failed() {
		return exitError{code: 1}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func terminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultExecWidth
}
