package sessionscmder

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/histcache"
)

const deleteLongDesc string = `Delete an interview session permanently.

Prompts for confirmation unless --yes is passed. The session is removed
from the server and from the local history cache.

Examples:
  prepdeck sessions delete 12
  prepdeck sessions delete 12 --yes`

const deleteShortDesc string = "Delete an interview session"

type deleteCommander struct {
	apiTarget string
	timeout   uint
	cache     string
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
				return fmt.Errorf("invalid session id %q", args[0])
			}
			return cmder.run(cmd, id)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.Flags, config.FlagCachePath, &cmder.cache)
	cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (c *deleteCommander) run(cmd *cobra.Command, id int64) error {
	registryKeys := []string{config.FlagAPITarget, config.FlagTimeout, config.FlagCachePath}

	if !c.yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete session #%d permanently? [y/N] ", id)
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

	api, err := newAPIClient(cmd, registryKeys)
	if err != nil {
		return err
	}

	if err := api.DeleteSession(cmd.Context(), id); err != nil {
		return err
	}

	// Keep the local cache consistent with the server.
	if dbPath, err := cachePath(cmd, registryKeys); err == nil {
		if cache, err := histcache.Open(dbPath); err == nil {
			_ = cache.Delete(cmd.Context(), id)
			cache.Close()
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted session #%d\n", cliui.SuccessMark, id)
	return nil
}
