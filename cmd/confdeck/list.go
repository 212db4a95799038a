package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/messages"
	"github.com/confdeck/confdeck/internal/model"
)

func newListCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			packages, err := app.repo.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(packages) == 0 {
				fmt.Fprint(out, messages.ListEmpty)
				return nil
			}
			doc, err := app.ledger.Load()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(out, 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tPLAYER\tPROFILE\tSTATUS")
			for _, pkg := range packages {
				status := ""
				if record, ok := doc.Installations[pkg.Name]; ok {
					status = messages.ListInstalledTag
					if record.Version != pkg.Version {
						status = fmt.Sprintf("%s (%s)", messages.ListInstalledTag, record.Version)
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					pkg.Name, pkg.Version, pkg.Player, pkg.Profile, status)
			}
			return w.Flush()
		},
	}
}

func newInfoCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InfoUse,
		Short: messages.InfoShort,
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
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			bold.Fprintf(out, "%s %s\n", pkg.Name, pkg.Version)
			if pkg.Description != "" {
				fmt.Fprintf(out, "  %s\n", pkg.Description)
			}
			fmt.Fprintf(out, "  player:  %s\n", pkg.Player)
			fmt.Fprintf(out, "  profile: %s\n", pkg.Profile)
			if len(pkg.Dependencies) > 0 {
				fmt.Fprintf(out, "  depends: %v\n", pkg.Dependencies)
			}
			fmt.Fprintf(out, "  files:\n")
			for _, file := range pkg.Files {
				marker := "optional"
				if file.Required {
					marker = "required"
				}
				fmt.Fprintf(out, "    %s (%s, %s)\n", file.TargetPath, file.Category, marker)
			}
			doc, err := app.ledger.Load()
			if err != nil {
				return err
			}
			if record, ok := doc.Installations[pkg.Name]; ok {
				fmt.Fprintf(out, "  installed: %s at %s (%s)\n",
					record.Version, record.TargetDir, record.InstalledAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func newReportCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ReportUse,
		Short: messages.ReportShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(*configPath)
			if err != nil {
				return err
			}
			doc, err := app.ledger.Load()
			if err != nil {
				return err
			}
			snapshots, err := app.backups.List("")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)

			bold.Fprintf(out, "Installed packages: %d\n", len(doc.Installations))
			names := make([]string, 0, len(doc.Installations))
			for name := range doc.Installations {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				record := doc.Installations[name]
				fmt.Fprintf(out, "  %s %s: %d files in %s\n",
					name, record.Version, len(record.Files), record.TargetDir)
			}

			bold.Fprintf(out, "Snapshots: %d\n", len(snapshots))
			perPackage := make(map[string]int)
			for _, snapshot := range snapshots {
				perPackage[snapshot.PackageName]++
			}
			packageNames := make([]string, 0, len(perPackage))
			for name := range perPackage {
				packageNames = append(packageNames, name)
			}
			sort.Strings(packageNames)
			for _, name := range packageNames {
				fmt.Fprintf(out, "  %s: %d\n", name, perPackage[name])
			}

			bold.Fprintln(out, "Active profiles:")
			for _, player := range model.Players() {
				if active, ok := doc.ActiveProfiles[player]; ok {
					fmt.Fprintf(out, "  %s: %s\n", player, active)
				}
			}
			return nil
		},
	}
}
