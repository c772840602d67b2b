// Package kbcmder provides the kb command for managing knowledge bases
// and asking questions against them.
package kbcmder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/logger"
)

const kbLongDesc string = `Manage knowledge bases and ask questions against them.

Knowledge bases hold reference documents (notes, write-ups, past answers)
that queries are grounded on. Answers stream back token by token.

Use subcommands to manage knowledge bases and query:
  prepdeck kb list
  prepdeck kb create <name>
  prepdeck kb delete <id>
  prepdeck kb upload <id> <file>
  prepdeck kb query --kb 1 "How do goroutines get scheduled?"`

const kbShortDesc string = "Manage knowledge bases and ask questions"

func NewKBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kb",
		Short: kbShortDesc,
		Long:  kbLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newCreateCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newUploadCmd())
	cmd.AddCommand(newQueryCmd())

	return cmd
}

// newAPIClient resolves flag/env/config precedence via viper and builds
// the API client every kb subcommand uses.
func newAPIClient(cmd *cobra.Command, registryKeys []string) (*client.Client, error) {
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return nil, fmt.Errorf("could not get config-dir flag: %w", err)
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return nil, fmt.Errorf("could not get debug flag: %w", err)
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, registryKeys)

	log := logger.New(logger.WithDebug(debug), logger.WithPretty(true))

	timeout := time.Duration(v.GetUint("client.timeout_seconds")) * time.Second
	return client.New(v.GetString("client.api_target"),
		client.WithLogger(log),
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	), nil
}
