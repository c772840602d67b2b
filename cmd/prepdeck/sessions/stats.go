package sessionscmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/chart"
	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
)

const statsLongDesc string = `Chart per-day session statistics.

Shows two bar charts: sessions per day and average score per day.

Examples:
  prepdeck sessions stats`

const statsShortDesc string = "Chart per-day session statistics"

type statsCommander struct {
	apiTarget string
	timeout   uint
}

func newStatsCmd() *cobra.Command {
	cmder := &statsCommander{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: statsShortDesc,
		Long:  statsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	return cmd
}

func (c *statsCommander) run(cmd *cobra.Command) error {
	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	days, err := api.SessionStats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(days) == 0 {
		fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No sessions yet."))
		return nil
	}

	width := cliui.Width(80)

	counts := make([]chart.Point, 0, len(days))
	scores := make([]chart.Point, 0, len(days))
	for _, day := range days {
		counts = append(counts, chart.Point{Label: day.Date, Value: float64(day.Sessions)})
		scores = append(scores, chart.Point{Label: day.Date, Value: day.AverageScore})
	}

	fmt.Fprintf(out, "\n  %s\n\n%s\n", cliui.KeyStyle.Render("Sessions per day"), indent(chart.Bars(counts, width-4)))
	fmt.Fprintf(out, "\n  %s\n\n%s\n\n", cliui.KeyStyle.Render("Average score per day"), indent(chart.Bars(scores, width-4)))

	return nil
}

func indent(block string) string {
	if block == "" {
		return block
	}
	return "  " + strings.ReplaceAll(block, "\n", "\n  ")
}
