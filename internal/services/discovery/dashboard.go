package discovery

import (
	"strings"
	"time"

	"auctus-engine/internal/models"
	"auctus-engine/internal/services/scoring"
)

// Dashboard thresholds.
const (
	HighMatchThreshold   = 60
	UpcomingWindowDays   = 30
	ApproachingDays      = 14
	dashboardTopGrants   = 3
	dashboardTopMatches  = 2
	dashboardThreadLimit = 3
)

// Dashboard is the landing summary for one business.
type Dashboard struct {
	Business            models.BusinessSummary  `json:"business"`
	HighMatchGrants     int                     `json:"highMatchGrants"`
	PartnerMatches      int                     `json:"partnerMatches"`
	UpcomingDeadlines   int                     `json:"upcomingDeadlines"`
	TopGrants           []models.ScoredGrant    `json:"topGrants"`
	TopMatches          []models.MatchView      `json:"topMatches"`
	RelevantThreads     []models.Thread         `json:"relevantThreads"`
	RecentThreads       []models.Thread         `json:"recentThreads"`
	ApproachingDeadline []scoring.UpcomingGrant `json:"approachingDeadlines"`
}

// Dashboard builds the summary for a business. ok is false when the business is unknown.
func (s *Service) Dashboard(businessID string, now time.Time) (*Dashboard, bool) {
	business := s.repo.BusinessByID(businessID)
	if business == nil {
		return nil, false
	}

	matched := s.scorer.MatchedGrants(businessID)
	highMatch := 0
	for _, g := range matched {
		if g.MatchPercentage > HighMatchThreshold {
			highMatch++
		}
	}

	forward := s.graph.MatchesWithBusinessDetails(businessID)
	approaching := s.scorer.UpcomingDeadlines(now, ApproachingDays)

	return &Dashboard{
		Business:            business.ToSummary(),
		HighMatchGrants:     highMatch,
		PartnerMatches:      len(s.graph.ForwardMatches(businessID)),
		UpcomingDeadlines:   len(s.scorer.UpcomingDeadlines(now, UpcomingWindowDays)),
		TopGrants:           limit(matched, dashboardTopGrants),
		TopMatches:          limit(forward, dashboardTopMatches),
		RelevantThreads:     s.relevantThreads(business),
		RecentThreads:       s.RecentThreads(dashboardThreadLimit),
		ApproachingDeadline: limit(approaching, dashboardThreadLimit),
	}, true
}

// relevantThreads matches the business needs and industry against thread titles, content and tags.
func (s *Service) relevantThreads(b *models.Business) []models.Thread {
	keywords := make([]string, 0, len(b.Needs)+1)
	for _, n := range b.Needs {
		keywords = append(keywords, strings.ToLower(n))
	}
	keywords = append(keywords, strings.ToLower(b.Industry))

	var threads []models.Thread
	for _, t := range s.repo.Threads() {
		text := strings.ToLower(t.Title + " " + t.Content + " " + strings.Join(t.Tags, " "))
		for _, k := range keywords {
			if k != "" && strings.Contains(text, k) {
				threads = append(threads, t)
				break
			}
		}
		if len(threads) == dashboardThreadLimit {
			break
		}
	}
	return threads
}

func limit[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
