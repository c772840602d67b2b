package sessionscmder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
)

const showLongDesc string = `Show a session transcript.

Displays the session summary followed by every question and answer
exchanged during the session.

Examples:
  prepdeck sessions show 12`

const showShortDesc string = "Show a session transcript"

type showCommander struct {
	apiTarget string
	timeout   uint
}

func newShowCmd() *cobra.Command {
	cmder := &showCommander{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: showShortDesc,
		Long:  showLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			return cmder.run(cmd, id)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	return cmd
}

func (c *showCommander) run(cmd *cobra.Command, id int64) error {
	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	detail, err := api.GetSession(cmd.Context(), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s %s\n",
		cliui.KeyStyle.Render(fmt.Sprintf("#%d", detail.ID)),
		cliui.NameStyle.Render(detail.Topic),
	)
	fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf(
		"%s  %s  %d questions  score %.1f",
		detail.Position,
		detail.StartedAt.Local().Format("2006-01-02 15:04"),
		detail.QuestionCount,
		detail.Score,
	)))

	for _, turn := range detail.Turns {
		role := cliui.KeyStyle.Render(turn.Role)
		if turn.Role == "candidate" {
			role = cliui.NameStyle.Render(turn.Role)
		}
		fmt.Fprintf(out, "  %s %s\n  %s\n\n",
			role,
			cliui.DimStyle.Render(turn.AskedAt.Local().Format("15:04")),
			turn.Content,
		)
	}

	return nil
}
