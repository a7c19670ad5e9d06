package models

import (
	"errors"
	"strings"
)

// Common errors
var (
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrMissingName      = errors.New("name cannot be empty")
	ErrInvalidDeadline  = errors.New("deadline must be YYYY-MM-DD or RFC3339")
	ErrInvalidRevenue   = errors.New("revenue cannot be negative")
	ErrInvalidEmployees = errors.New("employee count cannot be negative")
	ErrInvalidJobType   = errors.New("invalid job type")
	ErrInvalidEmail     = errors.New("invalid email address")
)

// NormalizeIndustry trims an industry label and maps common variations to catalog tags.
func NormalizeIndustry(industry string) string {
	normalized := strings.ToLower(strings.TrimSpace(industry))

	industryMap := map[string]string{
		"food and beverage":     "Food & Beverage",
		"food & beverage":       "Food & Beverage",
		"food":                  "Food & Beverage",
		"restaurant":            "Food & Beverage",
		"agriculture":           "Agriculture",
		"farming":               "Agriculture",
		"tech":                  "Technology",
		"technology":            "Technology",
		"software":              "Technology",
		"it":                    "Technology",
		"retail":                "Retail",
		"manufacturing":         "Manufacturing",
		"industrial":            "Industrial",
		"tourism":               "Tourism",
		"hospitality":           "Hospitality",
		"creative":              "Creative",
		"arts":                  "Creative",
		"professional services": "Professional Services",
		"consulting":            "Professional Services",
		"construction":          "Construction",
		"trades":                "Trades",
	}

	if mapped, ok := industryMap[normalized]; ok {
		return mapped
	}

	return strings.TrimSpace(industry)
}

// ValidateBusiness validates a business record.
func ValidateBusiness(b *Business) error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrEmptyID
	}

	if strings.TrimSpace(b.Name) == "" {
		return ErrMissingName
	}

	if b.Revenue < 0 {
		return ErrInvalidRevenue
	}

	if b.Employees < 0 {
		return ErrInvalidEmployees
	}

	if b.Email != "" && !isValidEmail(b.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateGrant validates a grant record.
func ValidateGrant(g *Grant) error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrEmptyID
	}

	if strings.TrimSpace(g.Name) == "" {
		return ErrMissingName
	}

	if g.Deadline != "" {
		if _, err := g.DeadlineTime(); err != nil {
			return err
		}
	}

	return nil
}

// ValidateJob validates a job posting.
func ValidateJob(j *Job) error {
	if strings.TrimSpace(j.ID) == "" {
		return ErrEmptyID
	}

	if !j.JobType.IsValid() {
		return ErrInvalidJobType
	}

	return nil
}

// isValidEmail performs basic email validation.
func isValidEmail(email string) bool {
	if email == "" {
		return false
	}

	// Basic check: must contain @ and have content before and after
	atIndex := strings.Index(email, "@")
	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	// Must have a dot after @
	dotIndex := strings.LastIndex(email, ".")
	if dotIndex <= atIndex+1 || dotIndex == len(email)-1 {
		return false
	}

	return true
}
