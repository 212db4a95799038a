package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/messages"
	"github.com/confdeck/confdeck/internal/model"
	"github.com/confdeck/confdeck/internal/terminal"
)

// isTerminalFunc is a seam for tests.
var isTerminalFunc = terminal.IsInteractive

// confirmFunc is a seam for tests; the default runs an interactive prompt.
var confirmFunc = runConfirm

func newUninstallCmd(configPath *string) *cobra.Command {
	var dryRun bool
	var yes bool

	cmd := &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			name := args[0]
			mode := model.ModeApply
			if dryRun {
				mode = model.ModeDryRun
			}
			out := cmd.OutOrStdout()
			if !dryRun && !yes {
				if !isTerminalFunc() {
					return errors.New(messages.UninstallNeedsYes)
				}
				preview, err := app.engine.Uninstall(name, model.ModeDryRun)
				if err != nil {
					return err
				}
				confirmed, err := confirmFunc(fmt.Sprintf(messages.UninstallConfirmFmt, name, len(preview.Removed)))
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(out, messages.UninstallAborted)
					return nil
				}
			}
			result, err := app.engine.Uninstall(name, mode)
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(out, messages.UninstallDryRunFmt, len(result.Removed), name)
				for _, p := range result.Removed {
					fmt.Fprintf(out, "  %s\n", p)
				}
				return nil
			}
			color.New(color.FgGreen).Fprintf(out, messages.UninstallSuccessFmt, name, len(result.Removed))
			if result.SnapshotID != "" {
				fmt.Fprintf(out, messages.UninstallSnapshotFmt, result.SnapshotID)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.UninstallFlagDryRun)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.UninstallFlagYes)
	return cmd
}

func runConfirm(title string) (bool, error) {
	confirmed := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(title).Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}
