package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/messages"
	"github.com/confdeck/confdeck/internal/model"
	"github.com/confdeck/confdeck/internal/paths"
)

func newProfileCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.ProfileUse,
		Short: messages.ProfileShort,
	}
	cmd.AddCommand(
		newProfileListCmd(configPath),
		newProfileSwitchCmd(configPath),
		newProfileCurrentCmd(configPath),
	)
	return cmd
}

func newProfileListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ProfileListUse,
		Short: messages.ProfileListShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.ParsePlayer(args[0])
			if err != nil {
				return err
			}
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			profiles, err := app.profiles.List(player)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(profiles) == 0 {
				fmt.Fprint(out, messages.ProfileListEmpty)
				return nil
			}
			active, recorded, err := app.profiles.Active(player)
			if err != nil {
				return err
			}
			for _, p := range profiles {
				if recorded && p == active {
					color.New(color.FgGreen).Fprintf(out, "* %s\n", p)
					continue
				}
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}

func newProfileSwitchCmd(configPath *string) *cobra.Command {
	var targetDir string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   messages.ProfileSwitchUse,
		Short: messages.ProfileSwitchShort,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.ParsePlayer(args[0])
			if err != nil {
				return err
			}
			profile, err := model.ParseProfile(args[1])
			if err != nil {
				return err
			}
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			target := targetDir
			if target == "" {
				target, err = paths.DetectOrDefault(player)
				if err != nil {
					return err
				}
			}
			mode := model.ModeApply
			if dryRun {
				mode = model.ModeDryRun
			}
			result, err := app.profiles.Switch(player, profile, target, mode)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				fmt.Fprintf(out, messages.InstallDryRunHeaderFmt,
					result.Record.PackageName, result.Record.Version, target)
				for _, p := range result.Record.AbsolutePaths() {
					fmt.Fprintf(out, "  %s\n", p)
				}
				return nil
			}
			color.New(color.FgGreen).Fprintf(out, messages.ProfileSwitchedFmt, player, profile)
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

func newProfileCurrentCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ProfileCurrentUse,
		Short: messages.ProfileCurrentShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := model.ParsePlayer(args[0])
			if err != nil {
				return err
			}
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			active, ok, err := app.profiles.Active(player)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprint(out, messages.ProfileNoneRecorded)
				return nil
			}
			fmt.Fprintf(out, messages.ProfileCurrentFmt, active)
			return nil
		},
	}
}
