package main

import (
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/config"
	"github.com/confdeck/confdeck/internal/logging"
	"github.com/confdeck/confdeck/internal/messages"
)

func newRootCmd() *cobra.Command {
	var configPath string
	var verbosity int

	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(verbosity, cmd.ErrOrStderr())
		},
	}
	cmd.SetVersionTemplate(messages.VersionTemplate)
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), messages.RootFlagConfig)
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", messages.RootFlagVerbose)

	cmd.AddCommand(
		newInstallCmd(&configPath),
		newUninstallCmd(&configPath),
		newVerifyCmd(&configPath),
		newListCmd(&configPath),
		newInfoCmd(&configPath),
		newReportCmd(&configPath),
		newBackupCmd(&configPath),
		newProfileCmd(&configPath),
		newDetectCmd(),
	)
	return cmd
}
