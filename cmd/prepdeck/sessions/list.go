package sessionscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/histcache"
	"github.com/papercomputeco/prepdeck/pkg/utils"
)

const listLongDesc string = `List interview-practice sessions, newest first.

Sessions are fetched from the API server and mirrored into a local cache
so the list stays browsable when the server is unreachable.

Examples:
  prepdeck sessions list
  prepdeck sessions list --api-target http://localhost:8080`

const listShortDesc string = "List interview sessions"

type listCommander struct {
	apiTarget string
	timeout   uint
	cache     string
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
	config.AddStringFlag(cmd, config.Flags, config.FlagCachePath, &cmder.cache)

	return cmd
}

func (c *listCommander) run(cmd *cobra.Command) error {
	registryKeys := []string{config.FlagAPITarget, config.FlagTimeout, config.FlagCachePath}

	api, err := newAPIClient(cmd, registryKeys)
	if err != nil {
		return err
	}

	dbPath, err := cachePath(cmd, registryKeys)
	if err != nil {
		return err
	}

	cache, err := histcache.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening history cache: %w", err)
	}
	defer cache.Close()

	ctx := cmd.Context()
	sessions, fromCache, err := fetchSessions(ctx, api, cache)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintf(out, "\n  %s\n\n", cliui.DimStyle.Render("No sessions yet."))
		return nil
	}

	if fromCache {
		fmt.Fprintf(out, "\n  %s\n", cliui.DimStyle.Render("API unreachable, showing cached sessions."))
	}

	fmt.Fprintln(out)
	for _, s := range sessions {
		fmt.Fprintf(out, "  %s  %s  %s  %s\n",
			cliui.KeyStyle.Render(fmt.Sprintf("#%-4d", s.ID)),
			cliui.NameStyle.Render(fmt.Sprintf("%-32s", utils.Truncate(s.Topic, 32))),
			cliui.DimStyle.Render(fmt.Sprintf("%s  %2d questions",
				s.StartedAt.Local().Format("2006-01-02 15:04"), s.QuestionCount)),
			cliui.ScoreStyle.Render(fmt.Sprintf("%.1f", s.Score)),
		)
	}
	fmt.Fprintln(out)

	return nil
}

// fetchSessions lists sessions from the API and refreshes the cache, or
// falls back to the cache when the API cannot be reached.
func fetchSessions(ctx context.Context, api *client.Client, cache *histcache.Cache) ([]client.Session, bool, error) {
	sessions, err := api.ListSessions(ctx)
	if err == nil {
		// Best effort: a failed cache refresh should not fail the listing.
		_ = cache.Replace(ctx, sessions)
		return sessions, false, nil
	}

	cached, cacheErr := cache.List(ctx)
	if cacheErr != nil || len(cached) == 0 {
		return nil, false, err
	}
	return cached, true, nil
}
