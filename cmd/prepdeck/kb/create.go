package kbcmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
)

const createLongDesc string = `Create an empty knowledge base.

Examples:
  prepdeck kb create "Go fundamentals"
  prepdeck kb create "System design" --description "Worked designs and trade-offs"`

const createShortDesc string = "Create a knowledge base"

type createCommander struct {
	apiTarget   string
	timeout     uint
	description string
}

func newCreateCmd() *cobra.Command {
	cmder := &createCommander{}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: createShortDesc,
		Long:  createLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd, args[0])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	cmd.Flags().StringVar(&cmder.description, "description", "", "Describe what this knowledge base holds")

	return cmd
}

func (c *createCommander) run(cmd *cobra.Command, name string) error {
	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	kb, err := api.CreateKnowledgeBase(cmd.Context(), name, c.description)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Created knowledge base %s (#%d)\n",
		cliui.SuccessMark, cliui.NameStyle.Render(kb.Name), kb.ID)
	return nil
}
