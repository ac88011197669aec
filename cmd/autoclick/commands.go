package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"autoclick/internal/config"
	"autoclick/internal/core/autoclicker"
	"autoclick/internal/history"

	"github.com/spf13/cobra"
)

func newConfigCmd(o *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				if _, err := os.Stat(o.configPath); err == nil {
					return usageError{fmt.Errorf("%s already exists (use --force to overwrite)", o.configPath)}
				}
			}
			settings, err := config.Load(config.Sources{
				DotEnv: []string{".env", config.DefaultEnvPath()},
			})
			if err != nil {
				return usageError{err}
			}
			if err := config.Save(o.configPath, settings); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", o.configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), o.configPath)
		},
	}

	configCmd.AddCommand(initCmd, pathCmd)
	return configCmd
}

func newHistoryCmd() *cobra.Command {
	var last int
	var totals bool
	var path string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded clicking sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if last < 0 {
				return usageError{fmt.Errorf("--last must be >= 0")}
			}
			store, err := history.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			out := cmd.OutOrStdout()
			if totals {
				t, err := store.Totals(ctx)
				if err != nil {
					return err
				}
				return history.WriteTotals(out, t)
			}
			records, err := store.Recent(ctx, last)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "no sessions recorded")
				return nil
			}
			return history.WriteTable(out, records, time.Now())
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "number of sessions to show")
	cmd.Flags().BoolVar(&totals, "totals", false, "print totals across all sessions")
	cmd.Flags().StringVar(&path, "db", config.DefaultHistoryPath(), "history database path")
	return cmd
}

func newKeysCmd(o *options) *cobra.Command {
	var capture bool
	var device string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List key names usable in a toggle sequence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if !capture {
				fmt.Fprintln(out, "modifiers: Ctrl Shift Alt Meta")
				fmt.Fprintln(out, "keys:", strings.Join(autoclicker.KnownKeyNames(), " "))
				fmt.Fprintln(out, "example: --toggle Ctrl+Shift+F6")
				return nil
			}

			level, err := parseLogLevel(o.logLevel)
			if err != nil {
				return usageError{err}
			}
			logger := newSlogLogger(level, nil)
			fmt.Fprintln(cmd.ErrOrStderr(), "press the key sequence to capture...")
			seq, err := captureKey(device, timeout, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, seq.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&capture, "capture", false, "read the next key sequence from a keyboard device")
	cmd.Flags().StringVar(&device, "device", "", "keyboard event device (default: all keyboards)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "how long to wait for a key")
	return cmd
}

func newDevicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List input devices usable with --device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listInputDevices(cmd.OutOrStdout())
		},
	}
}
