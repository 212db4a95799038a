package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/confdeck/confdeck/internal/messages"
	"github.com/confdeck/confdeck/internal/model"
	"github.com/confdeck/confdeck/internal/paths"
)

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   messages.DetectUse,
		Short: messages.DetectShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			players := model.Players()
			if len(args) == 1 {
				player, err := model.ParsePlayer(args[0])
				if err != nil {
					return err
				}
				players = []model.Player{player}
			}
			out := cmd.OutOrStdout()
			for _, player := range players {
				dir, err := paths.Detect(player)
				if err != nil {
					candidates := paths.Candidates(player)
					color.New(color.FgYellow).Fprintf(out, messages.DetectNotFoundFmt,
						player, strings.Join(candidates, ", "))
					continue
				}
				fmt.Fprintf(out, messages.DetectFoundFmt, player, dir)
			}
			return nil
		},
	}
}
