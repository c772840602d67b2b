package kbcmder

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
)

const uploadLongDesc string = `Upload a reference document into a knowledge base.

The file is streamed to the server, so large documents do not need to
fit in memory.

Examples:
  prepdeck kb upload 1 ./notes/goroutines.md
  prepdeck kb upload 1 ./system-design.pdf`

const uploadShortDesc string = "Upload a document into a knowledge base"

type uploadCommander struct {
	apiTarget string
	timeout   uint
}

func newUploadCmd() *cobra.Command {
	cmder := &uploadCommander{}

	cmd := &cobra.Command{
		Use:   "upload <id> <file>",
		Short: uploadShortDesc,
		Long:  uploadLongDesc,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid knowledge base id %q", args[0])
			}
			return cmder.run(cmd, id, args[1])
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)

	return cmd
}

func (c *uploadCommander) run(cmd *cobra.Command, id int64, path string) error {
	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening document: %w", err)
	}
	defer file.Close()

	var uploaded *client.UploadResponse
	err = cliui.Step(cmd.OutOrStdout(), fmt.Sprintf("Uploading %s", filepath.Base(path)), func() error {
		var stepErr error
		uploaded, stepErr = api.UploadDocument(cmd.Context(), id, filepath.Base(path), file)
		return stepErr
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Uploaded %s as document #%d\n",
		cliui.SuccessMark, cliui.NameStyle.Render(uploaded.Filename), uploaded.DocumentID)
	return nil
}
