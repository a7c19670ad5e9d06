package assistant

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"auctus-engine/internal/models"
)

const (
	maxSuggestions     = 3
	deadlineWindowDays = 30
)

const greetingMessage = "How can I help you today? You can ask about grants, partnerships, forum discussions, or general business questions."

const noBusinessMessage = "Please select a business from the navbar to get personalized recommendations."

const registrationMessage = `To register a business in New Brunswick:

1. **Choose your business structure** (sole proprietorship, partnership, corporation)
2. **Register with Service New Brunswick** (online or in-person)
3. **Apply for a business number** with Canada Revenue Agency (CRA)
4. **Register for HST** if annual revenue exceeds $30,000
5. **Obtain necessary licenses and permits** for your industry
6. **Open a business bank account**

Would you like help finding startup grants or connecting with other entrepreneurs?`

const permitsMessage = `📋 **Business Permits in Fredericton**

Common permits you may need:

• **Business Operating License** - Required for all businesses
• **Development Permit** - For renovations or signage changes
• **Food Service Permit** - Restaurants and food vendors
• **Home-Based Business Permit** - If operating from home

**Contact:** City of Fredericton Business Development
📞 (506) 460-2020

For specific requirements, visit the City of Fredericton's website or contact their Business Development office.`

const matchExplanationMessage = `Grant match percentages are calculated based on:

**Location** (25 points): Business must be in New Brunswick
**Revenue** (25 points): Meets revenue requirements
**Employees** (20 points): Meets employee count limits
**Industry** (30 points): Business industry matches grant focus

Your percentage shows how well your business profile aligns with the grant's eligibility criteria. Higher percentages mean better fit!

Green badges (>70%) = Excellent match
Yellow badges (40-70%) = Good match
Gray badges (<40%) = Possible match`

const defaultMessageFormat = `I'm here to help %s! You can ask me about:

• **Grants & Funding** - Find financial opportunities
• **Business Partnerships** - Connect with complementary businesses
• **Forum Discussions** - Get advice from the community
• **Deadlines** - Track upcoming grant deadlines
• **Business Registration** - Learn how to set up your business

What would you like to know?`

var amountPrinter = message.NewPrinter(language.English)

// formatAmount renders a dollar amount with thousands separators.
func formatAmount(amount int64) string {
	return amountPrinter.Sprintf("$%d", amount)
}

func noBusinessResponse() Response {
	return Response{
		Message: noBusinessMessage,
		QuickActions: []QuickAction{
			{Label: "Browse All Grants", Action: "/funding"},
			{Label: "Visit Forum", Action: "/forum"},
		},
	}
}

// grantFilter narrows grant answers when the message names a specific funding purpose.
type grantFilter struct {
	keywords []string
	matches  func(g models.ScoredGrant) bool
}

var grantFilters = []grantFilter{
	{
		keywords: []string{"equipment", "machinery"},
		matches: func(g models.ScoredGrant) bool {
			return strings.Contains(strings.ToLower(g.Name), "equipment") ||
				strings.Contains(strings.ToLower(g.Description), "equipment")
		},
	},
	{
		keywords: []string{"expansion", "grow"},
		matches: func(g models.ScoredGrant) bool {
			description := strings.ToLower(g.Description)
			return strings.Contains(strings.ToLower(g.Name), "expansion") ||
				strings.Contains(description, "expansion") ||
				strings.Contains(description, "growth")
		},
	},
	{
		keywords: []string{"startup", "new"},
		matches: func(g models.ScoredGrant) bool {
			return strings.Contains(strings.ToLower(g.Category), "startup") ||
				strings.Contains(strings.ToLower(g.Name), "startup")
		},
	},
}

func (d *Dispatcher) handleGrant(msg string, ctx Context) Response {
	business := ctx.Business
	matched := d.scorer.MatchedGrants(business.ID)
	top := firstN(matched, maxSuggestions)

	filtered := top
	for _, f := range grantFilters {
		if !containsAny(msg, f.keywords...) {
			continue
		}
		filtered = nil
		for _, g := range matched {
			if f.matches(g) {
				filtered = append(filtered, g)
				if len(filtered) == maxSuggestions {
					break
				}
			}
		}
		break
	}

	shown := filtered
	if len(shown) == 0 {
		shown = top
	}

	suggestions := make([]Suggestion, 0, len(shown))
	for _, g := range shown {
		suggestions = append(suggestions, Suggestion{
			Type:        SuggestionGrant,
			ID:          g.ID,
			Title:       g.Name,
			Description: fmt.Sprintf("%s - %d%% match", formatAmount(g.Amount), g.MatchPercentage),
			Link:        "/funding/" + g.ID,
		})
	}

	var text string
	if len(filtered) > 0 {
		text = fmt.Sprintf("I found %d grant%s that match your needs for %s:", len(filtered), plural(len(filtered)), business.Name)
	} else {
		text = fmt.Sprintf("Here are your top %d grant matches for %s:", len(top), business.Name)
	}

	eligibilityLink := "/funding"
	if len(suggestions) > 0 {
		eligibilityLink = suggestions[0].Link
	}

	return Response{
		Message:     text,
		Suggestions: suggestions,
		QuickActions: []QuickAction{
			{Label: "View All Grants", Action: "/funding"},
			{Label: "Check Eligibility", Action: eligibilityLink},
		},
	}
}

func (d *Dispatcher) handlePartnership(_ string, ctx Context) Response {
	business := ctx.Business
	matches := d.graph.ForwardMatches(business.ID)

	top := firstN(matches, maxSuggestions)
	suggestions := make([]Suggestion, 0, len(top))
	for _, m := range top {
		title := "Business Partner"
		if partner := d.repo.BusinessByID(m.PartnerID); partner != nil {
			title = partner.Name
		}
		need := "Potential collaboration"
		if len(m.Reasoning.YouNeed) > 0 {
			need = m.Reasoning.YouNeed[0]
		}
		suggestions = append(suggestions, Suggestion{
			Type:        SuggestionMatch,
			ID:          m.PartnerID,
			Title:       title,
			Description: fmt.Sprintf("%d%% match - %s", m.MatchScore, need),
			Link:        "/matchmaker",
		})
	}

	return Response{
		Message:     fmt.Sprintf("I found %d potential business partners for %s. Here are the top matches:", len(matches), business.Name),
		Suggestions: suggestions,
		QuickActions: []QuickAction{
			{Label: "View All Matches", Action: "/matchmaker"},
			{Label: "Browse Forum", Action: "/forum"},
		},
	}
}

func (d *Dispatcher) handleDeadline(_ string, _ Context) Response {
	upcoming := firstN(d.scorer.UpcomingDeadlines(d.now(), deadlineWindowDays), maxSuggestions)

	suggestions := make([]Suggestion, 0, len(upcoming))
	for _, g := range upcoming {
		suggestions = append(suggestions, Suggestion{
			Type:        SuggestionGrant,
			ID:          g.ID,
			Title:       g.Name,
			Description: fmt.Sprintf("%d days remaining - %s", g.DaysLeft, formatAmount(g.Amount)),
			Link:        "/funding/" + g.ID,
		})
	}

	text := "No grants have deadlines in the next 30 days. Check back later for new opportunities!"
	if len(upcoming) > 0 {
		text = "Here are the grants closing soon (next 30 days):"
	}

	return Response{
		Message:     text,
		Suggestions: suggestions,
		QuickActions: []QuickAction{
			{Label: "View All Grants", Action: "/funding"},
			{Label: "Set Reminders", Action: "/dashboard"},
		},
	}
}

func (d *Dispatcher) handleForum(_ string, ctx Context) Response {
	threads := d.repo.Threads()

	needs := make([]string, 0, len(ctx.Business.Needs))
	for _, n := range ctx.Business.Needs {
		needs = append(needs, strings.ToLower(n))
	}

	var relevant []models.Thread
	for _, t := range threads {
		text := strings.ToLower(t.Title + " " + t.Content)
		if containsAny(text, needs...) {
			relevant = append(relevant, t)
			if len(relevant) == maxSuggestions {
				break
			}
		}
	}

	if len(relevant) == 0 {
		relevant = firstN(recentThreads(threads), maxSuggestions)
	}

	suggestions := make([]Suggestion, 0, len(relevant))
	for _, t := range relevant {
		author := "Business"
		if b := d.repo.BusinessByID(t.AuthorID); b != nil {
			author = b.Name
		}
		suggestions = append(suggestions, Suggestion{
			Type:        SuggestionThread,
			ID:          t.ID,
			Title:       t.Title,
			Description: fmt.Sprintf("%s - %s", author, t.Category),
			Link:        "/forum/" + t.ID,
		})
	}

	return Response{
		Message:     "Here are some relevant forum discussions you might find helpful:",
		Suggestions: suggestions,
		QuickActions: []QuickAction{
			{Label: "Browse All Threads", Action: "/forum"},
			{Label: "Post a Question", Action: "/forum/new"},
		},
	}
}

func (d *Dispatcher) handleRegistration(_ string, _ Context) Response {
	return Response{
		Message: registrationMessage,
		QuickActions: []QuickAction{
			{Label: "Find Startup Grants", Action: "/funding"},
			{Label: "Ask in Forum", Action: "/forum/new"},
			{Label: "Browse Resources", Action: "/dashboard"},
		},
	}
}

func (d *Dispatcher) handlePermits(_ string, _ Context) Response {
	return Response{
		Message: permitsMessage,
		QuickActions: []QuickAction{
			{Label: "Find Grants", Action: "/funding"},
			{Label: "Ask in Forum", Action: "/forum/new"},
			{Label: "Back to Dashboard", Action: "/dashboard"},
		},
	}
}

func (d *Dispatcher) handleMatchExplanation(_ string, _ Context) Response {
	return Response{
		Message: matchExplanationMessage,
		QuickActions: []QuickAction{
			{Label: "View My Matches", Action: "/funding"},
			{Label: "Update Business Profile", Action: "/dashboard"},
		},
	}
}

func (d *Dispatcher) handleNavigation(msg string, ctx Context) Response {
	switch {
	case containsAny(msg, "grant", "funding"):
		return Response{
			Message:      "You can find all available grants on the Funding page. Use the filters to narrow down by match percentage, amount, or deadline.",
			QuickActions: []QuickAction{{Label: "Go to Funding", Action: "/funding"}},
		}
	case containsAny(msg, "forum", "discuss"):
		return Response{
			Message: "The Community Forum is where you can ask questions, share ideas, and connect with other Fredericton businesses.",
			QuickActions: []QuickAction{
				{Label: "Go to Forum", Action: "/forum"},
				{Label: "Post a Question", Action: "/forum/new"},
			},
		}
	case containsAny(msg, "partner", "match"):
		return Response{
			Message:      "The Business Matchmaker helps you find potential partners based on complementary needs and offerings.",
			QuickActions: []QuickAction{{Label: "Go to Matchmaker", Action: "/matchmaker"}},
		}
	}
	return d.handleDefault(msg, ctx)
}

func (d *Dispatcher) handleTalent(_ string, _ Context) Response {
	return Response{
		Message: "The Talent Marketplace connects local businesses with skilled workers. You can post job listings or browse available talent.",
		QuickActions: []QuickAction{
			{Label: "Go to Talent Page", Action: "/talent"},
			{Label: "Post a Job", Action: "/talent"},
		},
	}
}

func (d *Dispatcher) handleDefault(_ string, ctx Context) Response {
	return Response{
		Message:      fmt.Sprintf(defaultMessageFormat, ctx.Business.Name),
		QuickActions: PageActions(ctx.Page),
	}
}

// recentThreads returns a copy of threads ordered newest first.
func recentThreads(threads []models.Thread) []models.Thread {
	sorted := make([]models.Thread, len(threads))
	copy(sorted, threads)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
