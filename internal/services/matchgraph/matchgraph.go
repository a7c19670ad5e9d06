// Package matchgraph serves stored partner matches and derives the reciprocal
// view: businesses that listed the queried business as a partner.
package matchgraph

import (
	"sort"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
)

// Mutual tab thresholds.
const (
	MutualMinScore    = 75
	MutualMinBenefits = 2
)

// Tab is a matchmaker view.
type Tab string

const (
	TabAll      Tab = "all"
	TabYouNeed  Tab = "you-need"
	TabYouOffer Tab = "you-offer"
	TabMutual   Tab = "mutual"
)

// TabCounts holds the number of matches on each matchmaker tab.
type TabCounts struct {
	All      int `json:"all"`
	YouNeed  int `json:"youNeed"`
	YouOffer int `json:"youOffer"`
	Mutual   int `json:"mutual"`
}

// incomingEdge points at a stored match whose partner is the indexed business.
type incomingEdge struct {
	ownerID string
	match   *models.Match
}

// Graph answers match queries over an immutable catalog.
type Graph struct {
	repo     catalog.Repository
	incoming map[string][]incomingEdge
}

// New builds the incoming-edge index once from the catalog's match lists.
// Self-edges are not indexed.
func New(repo catalog.Repository) *Graph {
	g := &Graph{
		repo:     repo,
		incoming: make(map[string][]incomingEdge),
	}

	lists := repo.MatchLists()
	for i := range lists {
		owner := lists[i].BusinessID
		for j := range lists[i].Matches {
			m := &lists[i].Matches[j]
			if m.PartnerID == owner {
				continue
			}
			g.incoming[m.PartnerID] = append(g.incoming[m.PartnerID], incomingEdge{ownerID: owner, match: m})
		}
	}

	return g
}

// ForwardMatches returns the stored matches of a business in stored order.
func (g *Graph) ForwardMatches(businessID string) []models.Match {
	return g.repo.MatchesForBusiness(businessID)
}

// MatchesWithBusinessDetails joins forward matches with both business records.
// Matches whose partner is not in the catalog are skipped.
func (g *Graph) MatchesWithBusinessDetails(businessID string) []models.MatchView {
	you := g.repo.BusinessByID(businessID)
	if you == nil {
		return nil
	}

	matches := g.repo.MatchesForBusiness(businessID)
	views := make([]models.MatchView, 0, len(matches))
	for _, m := range matches {
		partner := g.repo.BusinessByID(m.PartnerID)
		if partner == nil {
			continue
		}
		views = append(views, models.MatchView{
			YourBusiness:    *you,
			PartnerBusiness: *partner,
			Reasoning: models.MatchReasoning{
				YouNeed:        clone(m.Reasoning.YouNeed),
				TheyOffer:      clone(m.Reasoning.TheyOffer),
				MutualBenefits: clone(m.Reasoning.MutualBenefits),
				MatchScore:     m.MatchScore,
			},
			Direction: models.MatchDirectionForward,
		})
	}
	return views
}

// ReciprocalMatches returns one view per stored match that names businessID as the
// partner, seen from businessID's side: what the owner needed is what you offer.
// Views are sorted by score, highest first, keeping catalog order on ties.
func (g *Graph) ReciprocalMatches(businessID string) []models.MatchView {
	you := g.repo.BusinessByID(businessID)
	if you == nil {
		return nil
	}

	edges := g.incoming[businessID]
	views := make([]models.MatchView, 0, len(edges))
	for _, edge := range edges {
		owner := g.repo.BusinessByID(edge.ownerID)
		if owner == nil {
			continue
		}
		views = append(views, models.MatchView{
			YourBusiness:    *you,
			PartnerBusiness: *owner,
			Reasoning: models.MatchReasoning{
				YouNeed:        clone(edge.match.Reasoning.TheyOffer),
				TheyOffer:      clone(edge.match.Reasoning.YouNeed),
				MutualBenefits: clone(edge.match.Reasoning.MutualBenefits),
				MatchScore:     edge.match.MatchScore,
			},
			Direction: models.MatchDirectionReciprocal,
		})
	}

	sortByScore(views)
	return views
}

// AllMatches merges forward and reciprocal views. A reciprocal view is dropped
// when its partner already appears among the forward views.
func (g *Graph) AllMatches(businessID string) []models.MatchView {
	forward := g.MatchesWithBusinessDetails(businessID)
	reciprocal := g.ReciprocalMatches(businessID)

	seen := make(map[string]bool, len(forward))
	all := make([]models.MatchView, 0, len(forward)+len(reciprocal))
	for _, v := range forward {
		seen[v.PartnerBusiness.ID] = true
		all = append(all, v)
	}
	for _, v := range reciprocal {
		if !seen[v.PartnerBusiness.ID] {
			all = append(all, v)
		}
	}

	sortByScore(all)
	return all
}

// YouNeedMatches returns forward views that list at least one need.
func (g *Graph) YouNeedMatches(businessID string) []models.MatchView {
	var views []models.MatchView
	for _, v := range g.MatchesWithBusinessDetails(businessID) {
		if len(v.Reasoning.YouNeed) > 0 {
			views = append(views, v)
		}
	}
	return views
}

// YouOfferMatches returns the reciprocal views.
func (g *Graph) YouOfferMatches(businessID string) []models.MatchView {
	return g.ReciprocalMatches(businessID)
}

// MutualMatches returns forward views with a high score or several mutual benefits.
func (g *Graph) MutualMatches(businessID string) []models.MatchView {
	var views []models.MatchView
	for _, v := range g.MatchesWithBusinessDetails(businessID) {
		if v.Reasoning.MatchScore >= MutualMinScore || len(v.Reasoning.MutualBenefits) >= MutualMinBenefits {
			views = append(views, v)
		}
	}
	return views
}

// MatchesForTab returns the views shown on a matchmaker tab. Unknown tabs show forward views.
func (g *Graph) MatchesForTab(businessID string, tab Tab) []models.MatchView {
	switch tab {
	case TabAll:
		return g.AllMatches(businessID)
	case TabYouNeed:
		return g.YouNeedMatches(businessID)
	case TabYouOffer:
		return g.YouOfferMatches(businessID)
	case TabMutual:
		return g.MutualMatches(businessID)
	default:
		return g.MatchesWithBusinessDetails(businessID)
	}
}

// Tabs counts the matches on every matchmaker tab.
func (g *Graph) Tabs(businessID string) TabCounts {
	return TabCounts{
		All:      len(g.AllMatches(businessID)),
		YouNeed:  len(g.YouNeedMatches(businessID)),
		YouOffer: len(g.YouOfferMatches(businessID)),
		Mutual:   len(g.MutualMatches(businessID)),
	}
}

func sortByScore(views []models.MatchView) {
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Reasoning.MatchScore > views[j].Reasoning.MatchScore
	})
}

func clone(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
