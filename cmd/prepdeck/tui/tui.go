// Package tuicmder provides the tui command, an interactive session
// history browser.
package tuicmder

import (
	"fmt"
	"net/http"
	"time"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/logger"
)

const tuiLongDesc string = `Browse interview-practice sessions interactively.

Opens a full-screen browser over your session history. Drill into a
session to read the transcript, or switch to the stats view for per-day
charts.

Keys:
  j/k        move
  enter      open session
  esc        back
  s          stats view
  r          refresh
  q          quit

Examples:
  prepdeck tui
  prepdeck tui --api-target http://localhost:8080`

const tuiShortDesc string = "Interactive session history browser"

type tuiCommander struct {
	apiTarget string
	timeout   uint
}

func NewTUICmd() *cobra.Command {
	cmder := &tuiCommander{}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: tuiShortDesc,
		Long:  tuiLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	return cmd
}

func (c *tuiCommander) run(cmd *cobra.Command) error {
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return fmt.Errorf("could not get config-dir flag: %w", err)
	}
	debug, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("could not get debug flag: %w", err)
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return err
	}
	config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagAPITarget, config.FlagTimeout})

	log := logger.New(logger.WithDebug(debug))

	timeout := time.Duration(v.GetUint("client.timeout_seconds")) * time.Second
	api := client.New(v.GetString("client.api_target"),
		client.WithLogger(log),
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	)

	model := newHistoryModel(api)
	program := bubbletea.NewProgram(model, bubbletea.WithAltScreen(), bubbletea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
