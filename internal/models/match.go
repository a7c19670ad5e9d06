package models

// Reasoning explains a match from the edge owner's perspective.
type Reasoning struct {
	YouNeed        []string `json:"youNeed"`
	TheyOffer      []string `json:"theyOffer"`
	MutualBenefits []string `json:"mutualBenefits"`
}

// Clone returns a copy of r that shares no lists with it.
func (r Reasoning) Clone() Reasoning {
	return Reasoning{
		YouNeed:        cloneStrings(r.YouNeed),
		TheyOffer:      cloneStrings(r.TheyOffer),
		MutualBenefits: cloneStrings(r.MutualBenefits),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Match is a directed edge: from the owning business's point of view,
// PartnerID offers what the owner needs.
type Match struct {
	PartnerID  string    `json:"partnerId" db:"partner_id"`
	MatchScore int       `json:"matchScore" db:"match_score"`
	Reasoning  Reasoning `json:"reasoning" db:"reasoning"`
}

// BusinessMatches is the stored forward match list of one business.
type BusinessMatches struct {
	BusinessID string  `json:"businessId" db:"business_id"`
	Matches    []Match `json:"matches"`
}

// MatchDirection tells whether a match view comes from a stored edge or was derived.
type MatchDirection string

const (
	MatchDirectionForward    MatchDirection = "forward"
	MatchDirectionReciprocal MatchDirection = "reciprocal"
)

// MatchReasoning is Reasoning plus the score, as rendered on a match card.
type MatchReasoning struct {
	YouNeed        []string `json:"youNeed"`
	TheyOffer      []string `json:"theyOffer"`
	MutualBenefits []string `json:"mutualBenefits"`
	MatchScore     int      `json:"matchScore"`
}

// MatchView is a match joined with both business records.
type MatchView struct {
	YourBusiness    Business       `json:"yourBusiness"`
	PartnerBusiness Business       `json:"partnerBusiness"`
	Reasoning       MatchReasoning `json:"reasoning"`
	Direction       MatchDirection `json:"direction"`
}
