package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/messages"
)

func newBackupCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.BackupUse,
		Short: messages.BackupShort,
	}
	cmd.AddCommand(
		newBackupListCmd(configPath),
		newBackupRestoreCmd(configPath),
		newBackupDeleteCmd(configPath),
		newBackupRotateCmd(configPath),
	)
	return cmd
}

func newBackupListCmd(configPath *string) *cobra.Command {
	var packageName string

	cmd := &cobra.Command{
		Use:   messages.BackupListUse,
		Short: messages.BackupListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			snapshots, err := app.backups.List(packageName)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(snapshots) == 0 {
				fmt.Fprint(out, messages.BackupListEmpty)
				return nil
			}
			w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPACKAGE\tTAKEN\tFILES")
			for _, snapshot := range snapshots {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n",
					snapshot.ID, snapshot.PackageName,
					snapshot.Timestamp.Local().Format("2006-01-02 15:04:05"),
					len(snapshot.Files))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&packageName, "package", "p", "", messages.BackupFlagPackage)
	return cmd
}

func newBackupRestoreCmd(configPath *string) *cobra.Command {
	var targetDir string

	cmd := &cobra.Command{
		Use:   messages.BackupRestoreUse,
		Short: messages.BackupRestoreShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			id := args[0]
			dest := targetDir
			if dest == "" {
				snapshot, err := app.backups.Get(id)
				if err != nil {
					return err
				}
				dest = snapshot.TargetDir
			}
			restored, err := app.backups.Restore(id, dest)
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), messages.BackupRestoredFmt, len(restored), id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetDir, "target", "t", "", messages.BackupFlagTarget)
	return cmd
}

func newBackupDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   messages.BackupDeleteUse,
		Short: messages.BackupDeleteShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			if err := app.backups.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), messages.BackupDeletedFmt, args[0])
			return nil
		},
	}
}

func newBackupRotateCmd(configPath *string) *cobra.Command {
	var packageName string
	var keep int

	cmd := &cobra.Command{
		Use:   messages.BackupRotateUse,
		Short: messages.BackupRotateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			limit := keep
			if !cmd.Flags().Changed("keep") {
				limit = app.cfg.KeepBackups
			}
			pruned, err := app.backups.Rotate(packageName, limit)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), messages.BackupRotatedFmt, pruned)
			return nil
		},
	}
	cmd.Flags().StringVarP(&packageName, "package", "p", "", messages.BackupFlagPackage)
	cmd.Flags().IntVarP(&keep, "keep", "k", 0, messages.BackupFlagKeep)
	return cmd
}
