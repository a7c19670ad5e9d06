// Package scoring computes business-to-grant compatibility and the grant
// rankings built on top of it.
package scoring

import (
	"math"
	"sort"
	"strings"
	"time"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
)

// Criterion weights. They sum to 100.
const (
	WeightLocation  = 25
	WeightRevenue   = 25
	WeightEmployees = 20
	WeightIndustry  = 30

	maxScore = WeightLocation + WeightRevenue + WeightEmployees + WeightIndustry
)

// DefaultSimilarLimit is the number of similar grants returned when no limit is given.
const DefaultSimilarLimit = 3

const relatedGrantLimit = 3

// Criterion names used in a Breakdown.
const (
	CriterionLocation  = "location"
	CriterionRevenue   = "revenue"
	CriterionEmployees = "employees"
	CriterionIndustry  = "industry"
)

// Criterion is one weighted line of the scoring rubric.
type Criterion struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Met    bool   `json:"met"`
}

// Earned returns the points this criterion contributes.
func (c Criterion) Earned() int {
	if c.Met {
		return c.Weight
	}
	return 0
}

// Breakdown explains how a score was reached.
type Breakdown struct {
	Criteria []Criterion `json:"criteria"`
	Earned   int         `json:"earned"`
	Possible int         `json:"possible"`
	Score    int         `json:"score"`
}

// Explain evaluates each rubric criterion for a business and grant.
//
// Location only earns points when the grant requires New Brunswick and the
// business is in New Brunswick. A grant without a location requirement earns
// nothing for location, unlike revenue and employees where "not required"
// earns full credit.
func Explain(business *models.Business, grant *models.Grant) Breakdown {
	be, ge := business.Eligibility, grant.Eligibility

	criteria := []Criterion{
		{
			Name:   CriterionLocation,
			Weight: WeightLocation,
			Met:    ge.IsNewBrunswick && be.IsNewBrunswick,
		},
		{
			Name:   CriterionRevenue,
			Weight: WeightRevenue,
			Met:    !ge.RevenueUnder500k || be.RevenueUnder500k,
		},
		{
			Name:   CriterionEmployees,
			Weight: WeightEmployees,
			Met:    !ge.EmployeesUnder50 || be.EmployeesUnder50,
		},
		{
			Name:   CriterionIndustry,
			Weight: WeightIndustry,
			Met:    industryMatches(be.Industries, ge),
		},
	}

	earned := 0
	for _, c := range criteria {
		earned += c.Earned()
	}

	return Breakdown{
		Criteria: criteria,
		Earned:   earned,
		Possible: maxScore,
		Score:    int(math.Round(float64(earned) / float64(maxScore) * 100)),
	}
}

// Score returns the 0-100 compatibility of a business with a grant.
func Score(business *models.Business, grant *models.Grant) int {
	return Explain(business, grant).Score
}

func industryMatches(businessIndustries []string, grant models.Eligibility) bool {
	if grant.HasIndustry(models.IndustryAll) {
		return true
	}
	for _, industry := range businessIndustries {
		if grant.HasIndustry(industry) {
			return true
		}
	}
	return false
}

// UpcomingGrant is a grant with the whole days left until its deadline.
type UpcomingGrant struct {
	models.Grant
	DaysLeft int `json:"daysLeft"`
}

// Scorer ranks catalog grants for a business.
type Scorer struct {
	repo catalog.Repository
}

// NewScorer creates a new scorer over the catalog.
func NewScorer(repo catalog.Repository) *Scorer {
	return &Scorer{repo: repo}
}

// ScoreGrant scores one catalog grant for one catalog business.
// Unknown ids yield zero and false.
func (s *Scorer) ScoreGrant(businessID, grantID string) (int, bool) {
	business := s.repo.BusinessByID(businessID)
	grant := s.repo.GrantByID(grantID)
	if business == nil || grant == nil {
		return 0, false
	}
	return Score(business, grant), true
}

// MatchedGrants scores every grant for the business, highest first.
// Grants with equal scores keep catalog order. An unknown business yields nil.
func (s *Scorer) MatchedGrants(businessID string) []models.ScoredGrant {
	business := s.repo.BusinessByID(businessID)
	if business == nil {
		return nil
	}

	grants := s.repo.Grants()
	scored := make([]models.ScoredGrant, 0, len(grants))
	for i := range grants {
		scored = append(scored, models.ScoredGrant{
			Grant:           grants[i],
			MatchPercentage: Score(business, &grants[i]),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchPercentage > scored[j].MatchPercentage
	})
	return scored
}

// SimilarGrants returns matched grants in the same category as grantID, excluding it.
// A limit of zero or less uses DefaultSimilarLimit.
func (s *Scorer) SimilarGrants(grantID, businessID string, limit int) []models.ScoredGrant {
	current := s.repo.GrantByID(grantID)
	if current == nil {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	var similar []models.ScoredGrant
	for _, g := range s.MatchedGrants(businessID) {
		if g.ID == grantID || g.Category != current.Category {
			continue
		}
		similar = append(similar, g)
		if len(similar) == limit {
			break
		}
	}
	return similar
}

// RelatedGrants returns up to three matched grants whose name, description or
// category mentions one of the thread's tags or its category.
func (s *Scorer) RelatedGrants(thread *models.Thread, businessID string) []models.ScoredGrant {
	if thread == nil {
		return nil
	}

	keywords := make([]string, 0, len(thread.Tags)+1)
	for _, tag := range thread.Tags {
		keywords = append(keywords, strings.ToLower(tag))
	}
	keywords = append(keywords, strings.ToLower(thread.Category))

	var related []models.ScoredGrant
	for _, g := range s.MatchedGrants(businessID) {
		text := strings.ToLower(g.Name + " " + g.Description + " " + g.Category)
		if containsAny(text, keywords) {
			related = append(related, g)
			if len(related) == relatedGrantLimit {
				break
			}
		}
	}
	return related
}

// UpcomingDeadlines returns grants whose deadline is between one and window days
// away, soonest first. Grants with unparsable deadlines are never included.
func (s *Scorer) UpcomingDeadlines(now time.Time, window int) []UpcomingGrant {
	var upcoming []UpcomingGrant
	for _, g := range s.repo.Grants() {
		days, ok := g.DaysUntilDeadline(now)
		if !ok || days <= 0 || days > window {
			continue
		}
		upcoming = append(upcoming, UpcomingGrant{Grant: g, DaysLeft: days})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DaysLeft < upcoming[j].DaysLeft
	})
	return upcoming
}

// GrantCategories returns "All" followed by the distinct grant categories in lexical order.
func (s *Scorer) GrantCategories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, g := range s.repo.Grants() {
		if !seen[g.Category] {
			seen[g.Category] = true
			categories = append(categories, g.Category)
		}
	}
	sort.Strings(categories)
	return append([]string{models.IndustryAll}, categories...)
}

// GrantsByCategory returns grants in the category. "All" returns every grant.
func (s *Scorer) GrantsByCategory(category string) []models.Grant {
	if category == models.IndustryAll {
		return append([]models.Grant(nil), s.repo.Grants()...)
	}
	var grants []models.Grant
	for _, g := range s.repo.Grants() {
		if g.Category == category {
			grants = append(grants, g)
		}
	}
	return grants
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
