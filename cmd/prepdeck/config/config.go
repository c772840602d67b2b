// Package configcmder provides the config command for managing persistent
// prepdeck configuration stored in the .prepdeck/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent prepdeck configuration.

Configuration is stored as config.toml in the .prepdeck/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  client.api_target, client.timeout_seconds,
  stub.listen, stub.seed,
  cache.path

Use subcommands to get, set, or list configuration values:
  prepdeck config set <key> <value>    Set a configuration value
  prepdeck config get <key>            Get a configuration value
  prepdeck config list                 List all configuration values

Examples:
  prepdeck config set client.api_target https://prep.example.com
  prepdeck config set stub.listen :9090
  prepdeck config get client.api_target
  prepdeck config list`

const configShortDesc string = "Manage persistent prepdeck configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
