// Package discovery implements the browse and search features around the core
// engine: forum lookups, the talent board and the dashboard summary.
package discovery

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
	"auctus-engine/internal/services/matchgraph"
	"auctus-engine/internal/services/scoring"
)

const relatedThreadLimit = 3

// Service serves discovery queries over the catalog.
type Service struct {
	repo   catalog.Repository
	scorer *scoring.Scorer
	graph  *matchgraph.Graph
}

// NewService creates a new discovery service.
func NewService(repo catalog.Repository, scorer *scoring.Scorer, graph *matchgraph.Graph) *Service {
	return &Service{
		repo:   repo,
		scorer: scorer,
		graph:  graph,
	}
}

// ForumCategories returns the fixed forum categories.
func (s *Service) ForumCategories() []string {
	return models.ForumCategories()
}

// SearchThreads matches the query against thread titles, content and tags, ignoring case.
func (s *Service) SearchThreads(query string) []models.Thread {
	q := strings.ToLower(query)

	var threads []models.Thread
	for _, t := range s.repo.Threads() {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Content), q) ||
			anyContains(t.Tags, q) {
			threads = append(threads, t)
		}
	}
	return threads
}

// ThreadsByCategory filters threads by category. "All" returns every thread.
func (s *Service) ThreadsByCategory(category string) []models.Thread {
	if category == models.IndustryAll {
		return append([]models.Thread(nil), s.repo.Threads()...)
	}
	var threads []models.Thread
	for _, t := range s.repo.Threads() {
		if t.Category == category {
			threads = append(threads, t)
		}
	}
	return threads
}

// ThreadsByAuthor returns the threads a business started.
func (s *Service) ThreadsByAuthor(businessID string) []models.Thread {
	var threads []models.Thread
	for _, t := range s.repo.Threads() {
		if t.AuthorID == businessID {
			threads = append(threads, t)
		}
	}
	return threads
}

// RelatedThreads returns up to three other threads that share the category or a tag.
func (s *Service) RelatedThreads(current *models.Thread) []models.Thread {
	if current == nil {
		return nil
	}

	var related []models.Thread
	for _, t := range s.repo.Threads() {
		if t.ID == current.ID {
			continue
		}
		if t.Category == current.Category || sharesTag(t.Tags, current.Tags) {
			related = append(related, t)
			if len(related) == relatedThreadLimit {
				break
			}
		}
	}
	return related
}

// RepliesForThread returns the replies posted to a thread.
func (s *Service) RepliesForThread(threadID string) []models.Reply {
	return s.repo.RepliesByThreadID(threadID)
}

// RecentThreads returns up to limit threads, newest first. The catalog is not reordered.
func (s *Service) RecentThreads(limit int) []models.Thread {
	threads := append([]models.Thread(nil), s.repo.Threads()...)
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Timestamp.After(threads[j].Timestamp)
	})
	if limit > 0 && len(threads) > limit {
		threads = threads[:limit]
	}
	return threads
}

// RelativeTime renders how long ago ts was, as shown next to forum posts.
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)
	mins := int(diff.Minutes())
	hours := mins / 60
	days := hours / 24

	switch {
	case mins < 60:
		return fmt.Sprintf("%d minutes ago", mins)
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, pluralS(hours))
	case days < 7:
		return fmt.Sprintf("%d day%s ago", days, pluralS(days))
	case days < 30:
		weeks := days / 7
		return fmt.Sprintf("%d week%s ago", weeks, pluralS(weeks))
	default:
		return ts.Format("Jan 2, 2006")
	}
}

func pluralS(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

func sharesTag(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func anyContains(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), substr) {
			return true
		}
	}
	return false
}
