// Package servecmder provides the serve command for running the local
// practice server.
package servecmder

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/dotdir"
	"github.com/papercomputeco/prepdeck/pkg/logger"
	"github.com/papercomputeco/prepdeck/stub"
)

const serveLongDesc string = `Run a local practice server.

The server implements the full Prep API in memory so every prepdeck
command and the TUI work without a real backend. By default it is seeded
with demo interview data.

Logs go to the terminal and, as JSON, to serve.log in the .prepdeck/
directory. Follow them from another terminal with prepdeck logs.

Examples:
  prepdeck serve
  prepdeck serve --listen :9090
  prepdeck serve --seed=false
  prepdeck serve --log-file /tmp/prepdeck.log`

const serveShortDesc string = "Run a local practice server"

type serveCommander struct {
	listen  string
	seed    bool
	logFile string
	debug   bool
	logger  *slog.Logger
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, []string{config.FlagListen, config.FlagSeed})
			cmder.listen = v.GetString("stub.listen")
			cmder.seed = v.GetBool("stub.seed")

			if cmder.logFile == "" {
				cmder.logFile, err = defaultLogPath(configDir)
				if err != nil {
					return err
				}
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddBoolFlag(cmd, config.Flags, config.FlagSeed, &cmder.seed)
	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Write JSON logs to this file (default: .prepdeck/serve.log)")

	return cmd
}

func (c *serveCommander) run() error {
	file, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer file.Close()

	// Pretty logs on the terminal, JSON in the file for prepdeck logs.
	c.logger = logger.Multi(
		logger.New(logger.WithDebug(c.debug), logger.WithPretty(true)),
		logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(file)),
	)

	server := stub.NewServer(stub.Config{
		ListenAddr: c.listen,
		Seed:       c.seed,
	}, stub.NewStore(), c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("stub server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

// defaultLogPath resolves serve.log inside the .prepdeck/ directory.
func defaultLogPath(configDir string) (string, error) {
	target, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return "", fmt.Errorf("resolving log dir: %w", err)
	}
	return filepath.Join(target, "serve.log"), nil
}
