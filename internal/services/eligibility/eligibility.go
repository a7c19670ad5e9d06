// Package eligibility checks a business against the free-text requirement
// lines of a grant.
package eligibility

import (
	"math"
	"strings"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
)

// Icon is the display hint for a verdict.
type Icon string

const (
	IconCheck    Icon = "check"
	IconX        Icon = "x"
	IconQuestion Icon = "question"
)

// Rule names reported with each verdict.
const (
	RuleLocation  = "location"
	RuleRevenue   = "revenue"
	RuleEmployees = "employees"
	RuleIndustry  = "industry"
	RuleGeneric   = "generic"
	RuleUnknown   = "unknown"
)

// Requirement is the verdict for one requirement line.
// Met is nil when the text could not be verified automatically.
type Requirement struct {
	Text string `json:"text"`
	Met  *bool  `json:"met"`
	Icon Icon   `json:"icon"`
	Rule string `json:"rule"`
}

// Breakdown aggregates the verdicts for one business and grant.
type Breakdown struct {
	Requirements []Requirement `json:"requirements"`
	MetCount     int           `json:"metCount"`
	TotalCount   int           `json:"totalCount"`
	Percentage   int           `json:"percentage"`
}

type rule struct {
	name    string
	matches func(req string) bool
	verdict func(b *models.Business) bool
}

// industryRule maps requirement keywords to the business industries that satisfy them.
func industryRule(keywords []string, industries []string) rule {
	return rule{
		name: RuleIndustry,
		matches: func(req string) bool {
			return containsAny(req, keywords...)
		},
		verdict: func(b *models.Business) bool {
			for _, industry := range industries {
				if b.Eligibility.HasIndustryFold(industry) {
					return true
				}
			}
			return false
		},
	}
}

// rules are checked in order; the first that matches decides the verdict.
var rules = []rule{
	{
		name: RuleLocation,
		matches: func(req string) bool {
			return containsAny(req, "new brunswick", "atlantic canada")
		},
		verdict: func(b *models.Business) bool { return b.Eligibility.IsNewBrunswick },
	},
	{
		name: RuleRevenue,
		matches: func(req string) bool {
			return containsAny(req, "revenue under", "annual revenue") && strings.Contains(req, "500")
		},
		verdict: func(b *models.Business) bool { return b.Eligibility.RevenueUnder500k },
	},
	{
		name: RuleEmployees,
		matches: func(req string) bool {
			return containsAny(req, "employees", "less than") && containsAny(req, "50", "100")
		},
		verdict: func(b *models.Business) bool { return b.Eligibility.EmployeesUnder50 },
	},
	industryRule([]string{"manufacturing"}, []string{"manufacturing", "industrial"}),
	industryRule([]string{"tourism", "hospitality"}, []string{"tourism", "hospitality"}),
	industryRule([]string{"food", "agriculture", "beverage"}, []string{"food & beverage", "agriculture"}),
	industryRule([]string{"retail"}, []string{"retail"}),
	industryRule([]string{"technology", "digital"}, []string{"technology"}),
	industryRule([]string{"creative", "cultural"}, []string{"creative", "professional services"}),
	industryRule([]string{"skilled trades", "construction"}, []string{"manufacturing", "construction", "trades"}),
	{
		name: RuleGeneric,
		matches: func(req string) bool {
			return containsAny(req, "business plan", "sustainability", "implementation", "market", "training")
		},
		verdict: func(*models.Business) bool { return true },
	},
}

// Check returns the verdict for a single requirement line.
func Check(business *models.Business, requirement string) Requirement {
	req := strings.ToLower(requirement)

	for _, r := range rules {
		if !r.matches(req) {
			continue
		}
		met := r.verdict(business)
		icon := IconX
		if met {
			icon = IconCheck
		}
		return Requirement{Text: requirement, Met: &met, Icon: icon, Rule: r.name}
	}

	return Requirement{Text: requirement, Met: nil, Icon: IconQuestion, Rule: RuleUnknown}
}

// Evaluate checks every requirement of the grant.
func Evaluate(business *models.Business, grant *models.Grant) Breakdown {
	breakdown := Breakdown{
		Requirements: make([]Requirement, 0, len(grant.Requirements)),
		TotalCount:   len(grant.Requirements),
	}

	for _, text := range grant.Requirements {
		r := Check(business, text)
		if r.Met != nil && *r.Met {
			breakdown.MetCount++
		}
		breakdown.Requirements = append(breakdown.Requirements, r)
	}

	if breakdown.TotalCount > 0 {
		breakdown.Percentage = int(math.Round(float64(breakdown.MetCount) / float64(breakdown.TotalCount) * 100))
	}
	return breakdown
}

// Evaluator resolves ids against the catalog before evaluating.
type Evaluator struct {
	repo catalog.Repository
}

// NewEvaluator creates a new evaluator over the catalog.
func NewEvaluator(repo catalog.Repository) *Evaluator {
	return &Evaluator{repo: repo}
}

// Breakdown evaluates a catalog grant for a catalog business.
// Unknown ids yield an empty breakdown with zero counts.
func (e *Evaluator) Breakdown(businessID, grantID string) Breakdown {
	business := e.repo.BusinessByID(businessID)
	grant := e.repo.GrantByID(grantID)
	if business == nil || grant == nil {
		return Breakdown{Requirements: []Requirement{}}
	}
	return Evaluate(business, grant)
}

func containsAny(text string, substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
