// Package catalog holds the read-only, id-indexed snapshot of businesses, grants,
// forum content, matches, jobs and talent that the recommendation engine reads.
package catalog

import (
	"fmt"

	"auctus-engine/internal/models"
)

// Repository is the read side of the catalog. Returned slices and pointers
// belong to the snapshot and must not be modified.
type Repository interface {
	Businesses() []models.Business
	BusinessByID(id string) *models.Business
	Grants() []models.Grant
	GrantByID(id string) *models.Grant
	Threads() []models.Thread
	ThreadByID(id string) *models.Thread
	Replies() []models.Reply
	RepliesByThreadID(threadID string) []models.Reply
	MatchLists() []models.BusinessMatches
	MatchesForBusiness(businessID string) []models.Match
	Jobs() []models.Job
	JobByID(id string) *models.Job
	Talents() []models.Talent
	TalentByID(id string) *models.Talent
}

// Data is the raw content of a snapshot, one slice per collection.
type Data struct {
	Businesses []models.Business
	Grants     []models.Grant
	Threads    []models.Thread
	Replies    []models.Reply
	Matches    []models.BusinessMatches
	Jobs       []models.Job
	Talents    []models.Talent
}

// Snapshot is an immutable catalog. It is safe for concurrent readers.
type Snapshot struct {
	data Data

	businesses map[string]int
	grants     map[string]int
	threads    map[string]int
	replies    map[string][]int
	matches    map[string]int
	jobs       map[string]int
	talents    map[string]int
}

// Stats reports collection sizes.
type Stats struct {
	Businesses int `json:"businesses"`
	Grants     int `json:"grants"`
	Threads    int `json:"threads"`
	Replies    int `json:"replies"`
	MatchLists int `json:"match_lists"`
	Jobs       int `json:"jobs"`
	Talents    int `json:"talents"`
}

// New validates data and builds the id indexes.
func New(data Data) (*Snapshot, error) {
	s := &Snapshot{
		data:       data,
		businesses: make(map[string]int, len(data.Businesses)),
		grants:     make(map[string]int, len(data.Grants)),
		threads:    make(map[string]int, len(data.Threads)),
		replies:    make(map[string][]int),
		matches:    make(map[string]int, len(data.Matches)),
		jobs:       make(map[string]int, len(data.Jobs)),
		talents:    make(map[string]int, len(data.Talents)),
	}

	for i := range data.Businesses {
		b := &data.Businesses[i]
		if err := models.ValidateBusiness(b); err != nil {
			return nil, fmt.Errorf("business %d (%q): %w", i, b.ID, err)
		}
		if err := index(s.businesses, b.ID, i, "business"); err != nil {
			return nil, err
		}
	}

	for i := range data.Grants {
		g := &data.Grants[i]
		if err := models.ValidateGrant(g); err != nil {
			return nil, fmt.Errorf("grant %d (%q): %w", i, g.ID, err)
		}
		if err := index(s.grants, g.ID, i, "grant"); err != nil {
			return nil, err
		}
	}

	for i, t := range data.Threads {
		if t.ID == "" {
			return nil, fmt.Errorf("thread %d: %w", i, models.ErrEmptyID)
		}
		if err := index(s.threads, t.ID, i, "thread"); err != nil {
			return nil, err
		}
	}

	seenReplies := make(map[string]int, len(data.Replies))
	for i, r := range data.Replies {
		if r.ID == "" {
			return nil, fmt.Errorf("reply %d: %w", i, models.ErrEmptyID)
		}
		if err := index(seenReplies, r.ID, i, "reply"); err != nil {
			return nil, err
		}
		s.replies[r.ThreadID] = append(s.replies[r.ThreadID], i)
	}

	for i, m := range data.Matches {
		if m.BusinessID == "" {
			return nil, fmt.Errorf("match list %d: %w", i, models.ErrEmptyID)
		}
		if err := index(s.matches, m.BusinessID, i, "match list"); err != nil {
			return nil, err
		}
	}

	for i := range data.Jobs {
		j := &data.Jobs[i]
		if err := models.ValidateJob(j); err != nil {
			return nil, fmt.Errorf("job %d (%q): %w", i, j.ID, err)
		}
		if err := index(s.jobs, j.ID, i, "job"); err != nil {
			return nil, err
		}
	}

	for i, t := range data.Talents {
		if t.ID == "" {
			return nil, fmt.Errorf("talent %d: %w", i, models.ErrEmptyID)
		}
		if err := index(s.talents, t.ID, i, "talent"); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func index(m map[string]int, id string, pos int, kind string) error {
	if _, exists := m[id]; exists {
		return fmt.Errorf("%s %q: %w", kind, id, models.ErrDuplicateID)
	}
	m[id] = pos
	return nil
}

// Stats returns collection sizes.
func (s *Snapshot) Stats() Stats {
	return Stats{
		Businesses: len(s.data.Businesses),
		Grants:     len(s.data.Grants),
		Threads:    len(s.data.Threads),
		Replies:    len(s.data.Replies),
		MatchLists: len(s.data.Matches),
		Jobs:       len(s.data.Jobs),
		Talents:    len(s.data.Talents),
	}
}

// Data returns the collections the snapshot was built from.
func (s *Snapshot) Data() Data {
	return s.data
}

// Businesses returns all businesses in catalog order.
func (s *Snapshot) Businesses() []models.Business {
	return s.data.Businesses
}

// BusinessByID returns the business or nil.
func (s *Snapshot) BusinessByID(id string) *models.Business {
	i, ok := s.businesses[id]
	if !ok {
		return nil
	}
	return &s.data.Businesses[i]
}

// Grants returns all grants in catalog order.
func (s *Snapshot) Grants() []models.Grant {
	return s.data.Grants
}

// GrantByID returns the grant or nil.
func (s *Snapshot) GrantByID(id string) *models.Grant {
	i, ok := s.grants[id]
	if !ok {
		return nil
	}
	return &s.data.Grants[i]
}

// Threads returns all threads in catalog order.
func (s *Snapshot) Threads() []models.Thread {
	return s.data.Threads
}

// ThreadByID returns the thread or nil.
func (s *Snapshot) ThreadByID(id string) *models.Thread {
	i, ok := s.threads[id]
	if !ok {
		return nil
	}
	return &s.data.Threads[i]
}

// Replies returns all replies in catalog order.
func (s *Snapshot) Replies() []models.Reply {
	return s.data.Replies
}

// RepliesByThreadID returns the replies of one thread in catalog order.
func (s *Snapshot) RepliesByThreadID(threadID string) []models.Reply {
	positions := s.replies[threadID]
	replies := make([]models.Reply, 0, len(positions))
	for _, i := range positions {
		replies = append(replies, s.data.Replies[i])
	}
	return replies
}

// MatchLists returns every stored forward match list in catalog order.
func (s *Snapshot) MatchLists() []models.BusinessMatches {
	return s.data.Matches
}

// MatchesForBusiness returns the stored forward matches of a business.
func (s *Snapshot) MatchesForBusiness(businessID string) []models.Match {
	i, ok := s.matches[businessID]
	if !ok {
		return nil
	}
	return s.data.Matches[i].Matches
}

// Jobs returns all jobs in catalog order.
func (s *Snapshot) Jobs() []models.Job {
	return s.data.Jobs
}

// JobByID returns the job or nil.
func (s *Snapshot) JobByID(id string) *models.Job {
	i, ok := s.jobs[id]
	if !ok {
		return nil
	}
	return &s.data.Jobs[i]
}

// Talents returns all talent profiles in catalog order.
func (s *Snapshot) Talents() []models.Talent {
	return s.data.Talents
}

// TalentByID returns the talent profile or nil.
func (s *Snapshot) TalentByID(id string) *models.Talent {
	i, ok := s.talents[id]
	if !ok {
		return nil
	}
	return &s.data.Talents[i]
}
