package kbcmder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/prepdeck/pkg/client"
	"github.com/papercomputeco/prepdeck/pkg/cliui"
	"github.com/papercomputeco/prepdeck/pkg/config"
	"github.com/papercomputeco/prepdeck/pkg/dotdir"
)

const queryLongDesc string = `Ask a question against one or more knowledge bases.

The answer streams back token by token as the server produces it. The
question and knowledge base selection are remembered, so --last re-runs
the previous query without retyping it.

Examples:
  prepdeck kb query --kb 1 "How do goroutines get scheduled?"
  prepdeck kb query --kb 1 --kb 2 "Compare mutexes and channels"
  prepdeck kb query --last
  prepdeck kb query --kb 1 --render "Explain the Go memory model"`

const queryShortDesc string = "Ask a question with a streamed answer"

type queryCommander struct {
	apiTarget string
	timeout   uint
	kbIDs     []int64
	last      bool
	render    bool
}

func newQueryCmd() *cobra.Command {
	cmder := &queryCommander{}

	cmd := &cobra.Command{
		Use:   "query [question]",
		Short: queryShortDesc,
		Long:  queryLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := ""
			if len(args) == 1 {
				question = strings.TrimSpace(args[0])
			}
			return cmder.run(cmd, question)
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPITarget, &cmder.apiTarget)
	config.AddUintFlag(cmd, config.Flags, config.FlagTimeout, &cmder.timeout)
	cmd.Flags().Int64SliceVar(&cmder.kbIDs, "kb", nil, "Knowledge base id to query (repeatable)")
	cmd.Flags().BoolVar(&cmder.last, "last", false, "Re-run the previous query")
	cmd.Flags().BoolVar(&cmder.render, "render", false, "Render the finished answer as markdown")

	return cmd
}

func (c *queryCommander) run(cmd *cobra.Command, question string) error {
	configDir, err := cmd.Flags().GetString("config-dir")
	if err != nil {
		return fmt.Errorf("could not get config-dir flag: %w", err)
	}

	ddm := dotdir.NewManager()
	kbIDs := c.kbIDs

	if c.last {
		if question != "" || len(kbIDs) > 0 {
			return errors.New("--last cannot be combined with a question or --kb")
		}
		state, err := ddm.LoadQueryState(configDir)
		if err != nil {
			return fmt.Errorf("loading previous query: %w", err)
		}
		if state == nil {
			return errors.New("no previous query found")
		}
		question = state.Question
		kbIDs = state.KnowledgeBaseIDs
	}

	if question == "" {
		return errors.New("a question is required (or use --last)")
	}
	if len(kbIDs) == 0 {
		return errors.New("at least one --kb id is required")
	}

	api, err := newAPIClient(cmd, []string{config.FlagAPITarget, config.FlagTimeout})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n  %s %s\n\n  ", cliui.KeyStyle.Render("Q:"), question)

	var answer strings.Builder
	handler := client.StreamHandler{
		OnMessage: func(chunk string) {
			if answer.Len() > 0 {
				fmt.Fprint(out, " ")
				answer.WriteString(" ")
			}
			fmt.Fprint(out, chunk)
			answer.WriteString(chunk)
		},
		OnComplete: func() {
			fmt.Fprint(out, "\n\n")
		},
		// The error itself surfaces through QueryStream's return value;
		// just unstick the cursor from the partial answer line.
		OnError: func(error) {
			fmt.Fprint(out, "\n\n")
		},
	}

	if err := api.QueryStream(cmd.Context(), kbIDs, question, handler); err != nil {
		return err
	}

	if c.render {
		rendered, err := cliui.RenderMarkdown(answer.String())
		if err == nil {
			fmt.Fprintln(out, rendered)
		}
	}

	// Remember the query so --last can replay it.
	state := &dotdir.QueryState{
		KnowledgeBaseIDs: kbIDs,
		Question:         question,
		AskedAt:          time.Now().UTC(),
	}
	if err := ddm.SaveQueryState(state, configDir); err != nil {
		return fmt.Errorf("saving query state: %w", err)
	}

	return nil
}
