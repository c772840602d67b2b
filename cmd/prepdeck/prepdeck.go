// Package prepdeckcmder assembles the root prepdeck command.
package prepdeckcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/prepdeck/cmd/prepdeck/config"
	kbcmder "github.com/papercomputeco/prepdeck/cmd/prepdeck/kb"
	logscmder "github.com/papercomputeco/prepdeck/cmd/prepdeck/logs"
	servecmder "github.com/papercomputeco/prepdeck/cmd/prepdeck/serve"
	sessionscmder "github.com/papercomputeco/prepdeck/cmd/prepdeck/sessions"
	tuicmder "github.com/papercomputeco/prepdeck/cmd/prepdeck/tui"
	versioncmder "github.com/papercomputeco/prepdeck/cmd/version"
)

const prepdeckLongDesc string = `Prepdeck is a terminal client for the Prep interview-practice platform.

Browse your session history, manage knowledge bases, and ask questions
with streamed answers:
  prepdeck sessions     Browse and manage interview sessions
  prepdeck kb           Manage knowledge bases and ask questions
  prepdeck tui          Interactive session history browser
  prepdeck serve        Run a local practice server`

const prepdeckShortDesc string = "Prepdeck - Interview practice from the terminal"

func NewPrepdeckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prepdeck",
		Short: prepdeckShortDesc,
		Long:  prepdeckLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing the .prepdeck config dir (default: search cwd, then home)")

	// Add subcommands
	cmd.AddCommand(sessionscmder.NewSessionsCmd())
	cmd.AddCommand(kbcmder.NewKBCmd())
	cmd.AddCommand(tuicmder.NewTUICmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(logscmder.NewLogsCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
