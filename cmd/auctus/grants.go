package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"auctus-engine/internal/models"
	"auctus-engine/internal/services/eligibility"
	"auctus-engine/internal/services/scoring"
)

var printer = message.NewPrinter(language.English)

func formatAmount(amount int64) string {
	return printer.Sprintf("$%d", amount)
}

func newGrantsCmd(a *app) *cobra.Command {
	var (
		businessID string
		category   string
	)

	cmd := &cobra.Command{
		Use:   "grants",
		Short: "List grants ranked by match percentage for a business",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.requireBusiness(businessID); err != nil {
				return err
			}

			grants := a.engine.MatchedGrants(businessID)
			if category != "" && category != models.IndustryAll {
				filtered := grants[:0:0]
				for _, g := range grants {
					if g.Category == category {
						filtered = append(filtered, g)
					}
				}
				grants = filtered
			}

			return a.render(cmd.OutOrStdout(), grants, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Grant", "Category", "Amount", "Deadline", "Match"})
				for _, g := range grants {
					t.AppendRow(table.Row{g.ID, truncate(g.Name, 40), g.Category, formatAmount(g.Amount), g.Deadline, fmt.Sprintf("%d%%", g.MatchPercentage)})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&businessID, "business", "b", "", "business id")
	cmd.Flags().StringVarP(&category, "category", "c", "", "only grants in this category")
	return cmd
}

// grantDetail is the JSON shape of the grant command.
type grantDetail struct {
	Grant       models.Grant          `json:"grant"`
	Score       scoring.Breakdown     `json:"score"`
	Eligibility eligibility.Breakdown `json:"eligibility"`
	Similar     []models.ScoredGrant  `json:"similar"`
}

func newGrantCmd(a *app) *cobra.Command {
	var businessID string

	cmd := &cobra.Command{
		Use:   "grant <grant-id>",
		Short: "Explain the score and eligibility of one grant for a business",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireBusiness(businessID); err != nil {
				return err
			}
			grant := a.engine.Grant(args[0])
			if grant == nil {
				return fmt.Errorf("grant %q not found", args[0])
			}

			score, _ := a.engine.ExplainGrant(businessID, grant.ID)
			detail := grantDetail{
				Grant:       *grant,
				Score:       score,
				Eligibility: a.engine.EligibilityBreakdown(businessID, grant.ID),
				Similar:     a.engine.SimilarGrants(grant.ID, businessID, scoring.DefaultSimilarLimit),
			}

			return a.render(cmd.OutOrStdout(), detail, func(t table.Writer) {
				t.SetTitle("%s (%s) %d%% match", grant.Name, formatAmount(grant.Amount), score.Score)
				t.AppendHeader(table.Row{"Check", "Result", "Points"})
				for _, c := range score.Criteria {
					t.AppendRow(table.Row{c.Name, verdict(&c.Met), fmt.Sprintf("%d/%d", c.Earned(), c.Weight)})
				}
				t.AppendSeparator()
				for _, r := range detail.Eligibility.Requirements {
					t.AppendRow(table.Row{truncate(r.Text, 50), verdict(r.Met), r.Rule})
				}
				t.AppendFooter(table.Row{"Requirements met", fmt.Sprintf("%d/%d", detail.Eligibility.MetCount, detail.Eligibility.TotalCount), fmt.Sprintf("%d%%", detail.Eligibility.Percentage)})
			})
		},
	}

	cmd.Flags().StringVarP(&businessID, "business", "b", "", "business id")
	return cmd
}

func newUpcomingCmd(a *app) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List grants whose deadline falls within the next days",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			grants := a.engine.UpcomingDeadlines(days)

			return a.render(cmd.OutOrStdout(), grants, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Grant", "Deadline", "Days left"})
				for _, g := range grants {
					t.AppendRow(table.Row{g.ID, truncate(g.Name, 40), g.Deadline, g.DaysLeft})
				}
			})
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 30, "window in days")
	return cmd
}

func verdict(met *bool) string {
	switch {
	case met == nil:
		return "?"
	case *met:
		return "yes"
	default:
		return "no"
	}
}
