// Package models defines the catalog records the recommendation engine reads.
package models

import "strings"

// IndustryAll is the grant-side wildcard meaning "no industry restriction".
const IndustryAll = "All"

// Eligibility holds the four scoring flags. On a Business it describes the business;
// on a Grant it describes what the grant requires.
type Eligibility struct {
	IsNewBrunswick   bool     `json:"isNewBrunswick" db:"is_new_brunswick"`
	RevenueUnder500k bool     `json:"revenueUnder500k" db:"revenue_under_500k"`
	EmployeesUnder50 bool     `json:"employeesUnder50" db:"employees_under_50"`
	Industries       []string `json:"industries" db:"industries"`
}

// HasIndustry reports whether the industry list contains name exactly.
func (e Eligibility) HasIndustry(name string) bool {
	for _, industry := range e.Industries {
		if industry == name {
			return true
		}
	}
	return false
}

// HasIndustryFold is HasIndustry ignoring case.
func (e Eligibility) HasIndustryFold(name string) bool {
	for _, industry := range e.Industries {
		if strings.EqualFold(industry, name) {
			return true
		}
	}
	return false
}

// Business represents a company profile in the catalog.
type Business struct {
	ID              string      `json:"id" db:"id"`
	Name            string      `json:"name" db:"name"`
	Industry        string      `json:"industry" db:"industry"`
	Location        string      `json:"location" db:"location"`
	Revenue         int64       `json:"revenue" db:"revenue"`
	Employees       int         `json:"employees" db:"employees"`
	Description     string      `json:"description" db:"description"`
	Needs           []string    `json:"needs" db:"needs"`
	Offers          []string    `json:"offers" db:"offers"`
	YearEstablished int         `json:"yearEstablished" db:"year_established"`
	Website         string      `json:"website" db:"website"`
	Email           string      `json:"email,omitempty" db:"email"`
	Eligibility     Eligibility `json:"eligibility" db:"eligibility"`
}

// BusinessSummary is a lightweight view used in suggestions and digests.
type BusinessSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	Location string `json:"location"`
}

// ToSummary converts a Business to BusinessSummary.
func (b *Business) ToSummary() BusinessSummary {
	return BusinessSummary{
		ID:       b.ID,
		Name:     b.Name,
		Industry: b.Industry,
		Location: b.Location,
	}
}

// DeriveEligibility fills the eligibility flags from the structured profile fields.
// Used when importing rosters that carry raw revenue, headcount and location only.
func DeriveEligibility(b *Business) Eligibility {
	location := strings.ToLower(b.Location)
	industries := b.Eligibility.Industries
	if len(industries) == 0 && b.Industry != "" {
		industries = []string{b.Industry}
	}

	return Eligibility{
		IsNewBrunswick: strings.Contains(location, "new brunswick") ||
			strings.HasSuffix(location, ", nb") ||
			strings.Contains(location, " nb "),
		RevenueUnder500k: b.Revenue < 500000,
		EmployeesUnder50: b.Employees < 50,
		Industries:       industries,
	}
}
