package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/messages"
	"github.com/confdeck/confdeck/internal/model"
	"github.com/confdeck/confdeck/internal/paths"
)

func newInstallCmd(configPath *string) *cobra.Command {
	var targetDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Long:  messages.InstallLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			pkg, err := app.repo.Get(args[0])
			if err != nil {
				return err
			}
			target := targetDir
			if target == "" {
				target, err = paths.DetectOrDefault(pkg.Player)
				if err != nil {
					return err
				}
			}
			mode := model.ModeApply
			if dryRun {
				mode = model.ModeDryRun
			} else if err := paths.ValidateWritable(target); err != nil {
				return err
			}
			result, err := app.engine.Install(pkg, target, mode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, messages.InstallDryRunHeaderFmt, pkg.Name, pkg.Version, target)
				for _, p := range result.Record.AbsolutePaths() {
					fmt.Fprintf(out, "  %s\n", p)
				}
				return nil
			}
			color.New(color.FgGreen).Fprintf(out, messages.InstallSuccessFmt,
				pkg.Name, pkg.Version, target, len(result.Record.Files))
			if result.SnapshotID != "" {
				fmt.Fprintf(out, messages.InstallSnapshotFmt, result.SnapshotID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetDir, "target", "t", "", messages.InstallFlagTarget)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, messages.InstallFlagDryRun)
	return cmd
}
