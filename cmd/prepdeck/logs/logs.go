// Package logscmder provides the logs command for following the local
// practice server's log file.
package logscmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/dotdir"
)

const logsLongDesc string = `Follow the local practice server's log file.

Tails serve.log from the .prepdeck/ directory, printing new lines as
prepdeck serve writes them. Like tail -f, but aware of file creation.

Examples:
  prepdeck logs
  prepdeck logs --log-file /tmp/prepdeck.log`

const logsShortDesc string = "Follow practice server logs"

type logsCommander struct {
	logFile string
}

func NewLogsCmd() *cobra.Command {
	cmder := &logsCommander{}

	cmd := &cobra.Command{
		Use:   "logs",
		Short: logsShortDesc,
		Long:  logsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, err := cmd.Flags().GetString("config-dir")
			if err != nil {
				return fmt.Errorf("could not get config-dir flag: %w", err)
			}

			if cmder.logFile == "" {
				target, err := dotdir.NewManager().Target(configDir)
				if err != nil {
					return fmt.Errorf("resolving log dir: %w", err)
				}
				cmder.logFile = filepath.Join(target, "serve.log")
			}

			if _, err := os.Stat(cmder.logFile); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return errors.New("no server logs found, is prepdeck serve running?")
				}
				return fmt.Errorf("checking log file: %w", err)
			}

			return followLog(cmd.Context(), cmder.logFile, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.logFile, "log-file", "", "Log file to follow (default: .prepdeck/serve.log)")

	return cmd
}

func followLog(ctx context.Context, path string, out io.Writer) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer file.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating log watcher: %w", err)
	}
	defer watcher.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat log file: %w", err)
	}

	if _, err := file.Seek(stat.Size(), io.SeekStart); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching log dir: %w", err)
	}

	buf := make([]byte, 4096)
	readAvailable := func() error {
		for {
			n, err := file.Read(buf)
			if n > 0 {
				if _, writeErr := out.Write(buf[:n]); writeErr != nil {
					return writeErr
				}
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
	}

	if err := readAvailable(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := readAvailable(); err != nil {
				return err
			}
		case err := <-watcher.Errors:
			return fmt.Errorf("log watcher error: %w", err)
		}
	}
}
