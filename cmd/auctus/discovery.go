package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"auctus-engine/internal/models"
	"auctus-engine/internal/services/discovery"
)

func newDashboardCmd(a *app) *cobra.Command {
	var businessID string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the landing summary for a business",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dash, ok := a.engine.Dashboard(businessID)
			if !ok {
				return fmt.Errorf("business %q not found", businessID)
			}

			return a.render(cmd.OutOrStdout(), dash, func(t table.Writer) {
				t.SetTitle("%s (%s, %s)", dash.Business.Name, dash.Business.Industry, dash.Business.Location)
				t.AppendHeader(table.Row{"Section", "Item", "Detail"})
				t.AppendRow(table.Row{"Summary", "High match grants", dash.HighMatchGrants})
				t.AppendRow(table.Row{"Summary", "Partner matches", dash.PartnerMatches})
				t.AppendRow(table.Row{"Summary", "Upcoming deadlines", dash.UpcomingDeadlines})
				t.AppendSeparator()
				for _, g := range dash.TopGrants {
					t.AppendRow(table.Row{"Top grant", truncate(g.Name, 40), fmt.Sprintf("%d%%", g.MatchPercentage)})
				}
				for _, m := range dash.TopMatches {
					t.AppendRow(table.Row{"Top match", m.PartnerBusiness.Name, fmt.Sprintf("%d%%", m.Reasoning.MatchScore)})
				}
				for _, g := range dash.ApproachingDeadline {
					t.AppendRow(table.Row{"Closing soon", truncate(g.Name, 40), fmt.Sprintf("%d days", g.DaysLeft)})
				}
				for _, th := range dash.RelevantThreads {
					t.AppendRow(table.Row{"For you", truncate(th.Title, 40), th.Category})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&businessID, "business", "b", "", "business id")
	return cmd
}

func newForumCmd(a *app) *cobra.Command {
	var (
		search   string
		category string
		author   string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "forum",
		Short: "Search and browse forum threads",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var threads []models.Thread
			switch {
			case search != "":
				threads = a.engine.SearchThreads(search)
			case author != "":
				threads = a.engine.ThreadsByAuthor(author)
			case category != "":
				threads = a.engine.ThreadsByCategory(category)
			default:
				threads = a.engine.RecentThreads(limit)
			}

			return a.render(cmd.OutOrStdout(), threads, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Title", "Category", "Replies", "Views", "Posted"})
				for _, th := range threads {
					t.AppendRow(table.Row{
						th.ID,
						truncate(th.Title, 50),
						th.Category,
						len(a.engine.RepliesForThread(th.ID)),
						th.Views,
						th.Timestamp.Format("2006-01-02"),
					})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "search titles, content and tags")
	cmd.Flags().StringVarP(&category, "category", "c", "", fmt.Sprintf("category (%s)", strings.Join(models.ForumCategories(), ", ")))
	cmd.Flags().StringVar(&author, "author", "", "threads posted by this business id")
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of recent threads")
	return cmd
}

func newJobsCmd(a *app) *cobra.Command {
	var (
		q      discovery.JobQuery
		sortBy string
	)

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Filter the job board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			q.Sort = discovery.SortOption(sortBy)
			jobs := a.engine.FilterJobs(q)

			return a.render(cmd.OutOrStdout(), jobs, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Title", "Business", "Type", "Pay", "Skills"})
				for _, j := range jobs {
					t.AppendRow(table.Row{
						j.ID,
						truncate(j.Title, 35),
						j.BusinessName,
						j.JobType,
						fmt.Sprintf("%s-%s", formatAmount(int64(j.PayRange.Min)), formatAmount(int64(j.PayRange.Max))),
						truncate(strings.Join(j.Skills, ", "), 40),
					})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "search title, description, skills and business")
	cmd.Flags().StringSliceVar(&q.Skills, "skill", nil, "required skill, repeatable")
	cmd.Flags().StringVar(&q.JobType, "type", "", "job type")
	cmd.Flags().StringVar(&sortBy, "sort", string(discovery.SortRecent), "recent, pay or type")
	return cmd
}

func newTalentsCmd(a *app) *cobra.Command {
	var (
		q          discovery.TalentQuery
		lookingFor []string
		sortBy     string
		showSkills bool
	)

	cmd := &cobra.Command{
		Use:   "talents",
		Short: "Filter the talent board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showSkills {
				skills := a.engine.UniqueSkills()
				return a.render(cmd.OutOrStdout(), skills, func(t table.Writer) {
					t.AppendHeader(table.Row{"Skill"})
					for _, s := range skills {
						t.AppendRow(table.Row{s})
					}
				})
			}

			q.Sort = discovery.SortOption(sortBy)
			q.LookingFor = q.LookingFor[:0]
			for _, jt := range lookingFor {
				q.LookingFor = append(q.LookingFor, models.JobType(jt))
			}
			talents := a.engine.FilterTalents(q)

			return a.render(cmd.OutOrStdout(), talents, func(t table.Writer) {
				t.AppendHeader(table.Row{"ID", "Name", "Availability", "Experience", "Skills"})
				for _, tl := range talents {
					t.AppendRow(table.Row{tl.ID, tl.Name, tl.Availability, tl.Experience, truncate(strings.Join(tl.Skills, ", "), 40)})
				}
			})
		},
	}

	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "search name, bio, skills and experience")
	cmd.Flags().StringSliceVar(&q.Skills, "skill", nil, "required skill, repeatable")
	cmd.Flags().StringVar(&q.Availability, "availability", "", "availability")
	cmd.Flags().StringSliceVar(&lookingFor, "looking-for", nil, "job types sought, any of")
	cmd.Flags().StringVar(&sortBy, "sort", string(discovery.SortRecent), "recent, experience or match")
	cmd.Flags().BoolVar(&showSkills, "skills", false, "list every skill on the board instead")
	return cmd
}
