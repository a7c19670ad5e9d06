// Package models defines the catalog records the recommendation engine reads.
package models

import (
	"math"
	"time"
)

// DeadlineLayout is the date format grant deadlines are stored in.
const DeadlineLayout = "2006-01-02"

// Grant represents a funding opportunity.
type Grant struct {
	ID             string      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Amount         int64       `json:"amount" db:"amount"`
	Deadline       string      `json:"deadline" db:"deadline"`
	Category       string      `json:"category" db:"category"`
	Description    string      `json:"description" db:"description"`
	Provider       string      `json:"provider" db:"provider"`
	Eligibility    Eligibility `json:"eligibility" db:"eligibility"`
	Requirements   []string    `json:"requirements" db:"requirements"`
	ApplicationURL string      `json:"applicationUrl" db:"application_url"`
}

// DeadlineTime parses the grant deadline. Date-only values are midnight UTC.
func (g *Grant) DeadlineTime() (time.Time, error) {
	if t, err := time.Parse(DeadlineLayout, g.Deadline); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, g.Deadline)
	if err != nil {
		return time.Time{}, ErrInvalidDeadline
	}
	return t, nil
}

// DaysUntilDeadline returns the whole days left before the deadline, rounded up.
// ok is false when the deadline cannot be parsed.
func (g *Grant) DaysUntilDeadline(now time.Time) (days int, ok bool) {
	deadline, err := g.DeadlineTime()
	if err != nil {
		return 0, false
	}
	diff := deadline.Sub(now)
	return int(math.Ceil(diff.Hours() / 24)), true
}

// OpenWithin reports whether the deadline falls in (0, window] days from now.
func (g *Grant) OpenWithin(now time.Time, window int) bool {
	days, ok := g.DaysUntilDeadline(now)
	return ok && days > 0 && days <= window
}

// ScoredGrant is a grant annotated with its match percentage for one business.
type ScoredGrant struct {
	Grant
	MatchPercentage int `json:"matchPercentage"`
}
