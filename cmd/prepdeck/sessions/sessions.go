// Package sessionscmder provides the sessions command for browsing and
// managing recorded interview-practice sessions.
package sessionscmder

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/dotdir"
	"github.com/papercomputeco/prepdeck/pkg/logger"
)

const sessionsLongDesc string = `Browse and manage interview-practice sessions.

Use subcommands to list sessions, show a transcript, delete a session,
or chart per-day statistics:
  prepdeck sessions list
  prepdeck sessions show <id>
  prepdeck sessions delete <id>
  prepdeck sessions stats`

const sessionsShortDesc string = "Browse and manage interview sessions"

func NewSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: sessionsShortDesc,
		Long:  sessionsLongDesc,
	}

	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newDeleteCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

// newAPIClient resolves flag/env/config precedence via viper and builds
// the API client every sessions subcommand uses.
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

// cachePath resolves the history cache location from the same viper chain.
// An unset cache.path falls back to history.db in the .prepdeck/ directory.
func cachePath(cmd *cobra.Command, registryKeys []string) (string, error) {
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return "", fmt.Errorf("could not get config-dir flag: %w", err)
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return "", err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, registryKeys)

	if path := v.GetString("cache.path"); path != "" {
		return path, nil
	}

	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", fmt.Errorf("resolving cache dir: %w", err)
	}
	return filepath.Join(target, "history.db"), nil
}
