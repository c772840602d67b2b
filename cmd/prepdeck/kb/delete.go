package kbcmder

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
)

const deleteLongDesc string = `Delete a knowledge base and its documents permanently.

Prompts for confirmation unless --yes is passed.

Examples:
  prepdeck kb delete 2
  prepdeck kb delete 2 --yes`

const deleteShortDesc string = "Delete a knowledge base"

type deleteCommander struct {
	apiTarget string
	timeout   uint
	yes       bool
}

func newDeleteCmd() *cobra.Command {
	cmder := &deleteCommander{}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: deleteShortDesc,
		Long:  deleteLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid knowledge base id %q", args[0])
			}
			return cmder.run(cmd, id)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (c *deleteCommander) run(cmd *cobra.Command, id int64) error {
	if !c.yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete knowledge base #%d and all its documents? [y/N] ", id)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading confirmation: %w", err)
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}
	}

	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	if err := api.DeleteKnowledgeBase(cmd.Context(), id); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted knowledge base #%d\n", cliui.SuccessMark, id)
	return nil
}
