package kbcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/utils"
)

const listLongDesc string = `List knowledge bases.

Examples:
  prepdeck kb list`

const listShortDesc string = "List knowledge bases"

type listCommander struct {
	apiTarget string
	timeout   uint
}

func newListCmd() *cobra.Command {
	cmder := &listCommander{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: listShortDesc,
		Long:  listLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command) error {
	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	kbs, err := api.ListKnowledgeBases(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(kbs) == 0 {
		fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No knowledge bases yet. Create one with: prepdeck kb create <name>"))
		return nil
	}

	fmt.Fprintln(out)
	for _, kb := range kbs {
		fmt.Fprintf(out, "  %s  %s  %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("#%-4d", kb.ID)),
			cliui.NameStyle.Render(fmt.Sprintf("%-24s", utils.Truncate(kb.Name, 24))),
			cliui.DimStyle.Render(fmt.Sprintf("%d documents  %s",
				kb.DocumentCount, utils.Truncate(kb.Description, 48))),
		)
	}
	fmt.Fprintln(out)

	return nil
}
