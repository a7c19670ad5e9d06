package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"auctus-engine/internal/services/assistant"
)

// askOutput is the JSON shape of the ask command.
type askOutput struct {
	Intent assistant.Intent `json:"intent,omitempty"`
	assistant.Response
}

func newAskCmd(a *app) *cobra.Command {
	var (
		businessID string
		page       string
		action     string
	)

	cmd := &cobra.Command{
		Use:   "ask [message...]",
		Short: "Ask the assistant a question",
		Long: `ask sends a message to the assistant for the selected business and page.

With --action the quick action token is processed instead, for example
--action "query:upcoming deadlines". ASSISTANT_TYPING_DELAY_MS delays
the answer the way the web assistant does.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var out askOutput
			if action != "" {
				out.Response, out.Intent = a.engine.ProcessQuickAction(action, businessID, page)
			} else {
				out.Response, out.Intent = a.engine.Respond(strings.Join(args, " "), businessID, page)
			}

			if delay := a.cfg.AssistantTypingDelay; delay > 0 {
				select {
				case <-time.After(delay):
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				}
			}

			if a.jsonOut {
				return a.render(cmd.OutOrStdout(), out, nil)
			}
			printResponse(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&businessID, "business", "b", "", "selected business id")
	cmd.Flags().StringVarP(&page, "page", "p", "/dashboard", "current page path")
	cmd.Flags().StringVar(&action, "action", "", "quick action token to process instead of a message")
	return cmd
}

func printResponse(w io.Writer, out askOutput) {
	if out.Message != "" {
		fmt.Fprintln(w, out.Message)
	}
	for i, s := range out.Suggestions {
		fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, s.Title, s.Description)
		if s.Link != "" {
			fmt.Fprintf(w, "     %s\n", s.Link)
		}
	}
	if len(out.QuickActions) > 0 {
		fmt.Fprintln(w)
		for _, qa := range out.QuickActions {
			fmt.Fprintf(w, "  [%s] %s\n", qa.Label, qa.Action)
		}
	}
}
