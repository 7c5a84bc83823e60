package main

import (
	"fmt"
	"io"
	"strings"

	"chatbot-cli/internal/config"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or edit the config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), root.configPath())
				return err
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config (api key masked)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runConfigShow(root, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "set key=value...",
			Short: "Write values into the config file",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runConfigSet(root, args, cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func runConfigShow(root *rootArgs, out io.Writer) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	cfg.APIKey = maskKey(cfg.APIKey)
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# %s (provider in use: %s)\n", root.configPath(), cfg.ResolvedProvider())
	_, err = out.Write(data)
	return err
}

// runConfigSet 只读写文件本身，环境变量里的 key 不会被写回。
func runConfigSet(root *rootArgs, assignments []string, out io.Writer) error {
	path := root.configPath()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	for _, raw := range assignments {
		cfg, err = config.Set(cfg, raw)
		if err != nil {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	log.WithField("path", path).Infof("config updated")
	_, err = fmt.Fprintf(out, "updated %s\n", path)
	return err
}

func maskKey(key string) string {
	key = strings.TrimSpace(key)
	switch {
	case key == "":
		return ""
	case len(key) <= 8:
		return strings.Repeat("*", len(key))
	default:
		return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
	}
}
