package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"auctus-engine/internal/models"
	"auctus-engine/internal/services/matchgraph"
)

// matchesOutput is the JSON shape of the matches command.
type matchesOutput struct {
	Tab     matchgraph.Tab       `json:"tab"`
	Tabs    matchgraph.TabCounts `json:"tabs"`
	Matches []models.MatchView   `json:"matches"`
}

func newMatchesCmd(a *app) *cobra.Command {
	var (
		businessID string
		tab        string
	)

	cmd := &cobra.Command{
		Use:   "matches",
		Short: "Show partner matches for a business on a matchmaker tab",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireBusiness(businessID); err != nil {
				return err
			}

			selected := matchgraph.Tab(tab)
			switch selected {
			case matchgraph.TabAll, matchgraph.TabYouNeed, matchgraph.TabYouOffer, matchgraph.TabMutual:
			default:
				return fmt.Errorf("invalid --tab %q: must be all, you-need, you-offer or mutual", tab)
			}

			out := matchesOutput{
				Tab:     selected,
				Tabs:    a.engine.MatchTabs(businessID),
				Matches: a.engine.MatchesForTab(businessID, selected),
			}

			return a.render(cmd.OutOrStdout(), out, func(t table.Writer) {
				t.SetTitle("all %d | you-need %d | you-offer %d | mutual %d",
					out.Tabs.All, out.Tabs.YouNeed, out.Tabs.YouOffer, out.Tabs.Mutual)
				t.AppendHeader(table.Row{"Partner", "Industry", "Score", "Direction", "You need", "They offer"})
				for _, m := range out.Matches {
					t.AppendRow(table.Row{
						m.PartnerBusiness.Name,
						m.PartnerBusiness.Industry,
						m.Reasoning.MatchScore,
						m.Direction,
						truncate(strings.Join(m.Reasoning.YouNeed, ", "), 40),
						truncate(strings.Join(m.Reasoning.TheyOffer, ", "), 40),
					})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&businessID, "business", "b", "", "business id")
	cmd.Flags().StringVarP(&tab, "tab", "t", string(matchgraph.TabAll), "all, you-need, you-offer or mutual")
	return cmd
}
