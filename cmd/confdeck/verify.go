package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/engine"
	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/messages"
)

func newVerifyCmd(configPath *string) *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   messages.VerifyUse,
		Short: messages.VerifyShort,
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
			problems, err := app.engine.Verify(pkg)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(problems) > 0 {
				color.New(color.FgRed).Fprintf(out, messages.VerifyIssuesFmt, pkg.Name, len(problems))
				for _, p := range problems {
					fmt.Fprintf(out, messages.VerifyProblemFmt, p)
				}
				return fail.Newf(fail.KindValidation, "verification failed for %s", pkg.Name)
			}
			color.New(color.FgGreen).Fprintf(out, messages.VerifyOKFmt, pkg.Name)
			if !showDiff {
				return nil
			}
			previews, err := app.engine.Drift(pkg, engine.DefaultDriftMaxLines)
			if err != nil {
				return err
			}
			if len(previews) == 0 {
				fmt.Fprint(out, messages.VerifyNoDrift)
				return nil
			}
			for _, preview := range previews {
				color.New(color.FgYellow).Fprintf(out, messages.VerifyDriftFmt, preview.Path)
				fmt.Fprintln(out, preview.UnifiedDiff)
				if preview.Truncated {
					fmt.Fprintln(out, "  (diff truncated)")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, messages.VerifyFlagDiff)
	return cmd
}
