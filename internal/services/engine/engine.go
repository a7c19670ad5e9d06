// Package engine is the library boundary of the recommendation engine. It wires the
// scorer, evaluator, match graph, assistant and discovery services over one catalog.
package engine

import (
	"time"

	"go.uber.org/zap"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
	"auctus-engine/internal/services/assistant"
	"auctus-engine/internal/services/discovery"
	"auctus-engine/internal/services/eligibility"
	"auctus-engine/internal/services/matchgraph"
	"auctus-engine/internal/services/scoring"
)

// Engine answers recommendation queries for one catalog snapshot.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	repo       catalog.Repository
	scorer     *scoring.Scorer
	evaluator  *eligibility.Evaluator
	graph      *matchgraph.Graph
	dispatcher *assistant.Dispatcher
	discovery  *discovery.Service
	logger     *zap.Logger
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the time source for deadline calculations.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an engine over the catalog.
func New(repo catalog.Repository, opts ...Option) *Engine {
	e := &Engine{
		repo:   repo,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.scorer = scoring.NewScorer(repo)
	e.evaluator = eligibility.NewEvaluator(repo)
	e.graph = matchgraph.New(repo)
	e.dispatcher = assistant.NewDispatcher(repo, e.scorer, e.graph, assistant.WithClock(e.now))
	e.discovery = discovery.NewService(repo, e.scorer, e.graph)
	return e
}

// Catalog returns the underlying repository.
func (e *Engine) Catalog() catalog.Repository {
	return e.repo
}

// Business returns the business with the given id, or nil.
func (e *Engine) Business(id string) *models.Business {
	return e.repo.BusinessByID(id)
}

// Grant returns the grant with the given id, or nil.
func (e *Engine) Grant(id string) *models.Grant {
	return e.repo.GrantByID(id)
}

// --- Grants ---

// ScoreGrant scores one business against one grant. ok is false when either id is unknown.
func (e *Engine) ScoreGrant(businessID, grantID string) (int, bool) {
	score, ok := e.scorer.ScoreGrant(businessID, grantID)
	if !ok {
		e.logger.Debug("score requested for unknown ids",
			zap.String("business_id", businessID),
			zap.String("grant_id", grantID),
		)
	}
	return score, ok
}

// ExplainGrant returns the per-criterion score breakdown.
func (e *Engine) ExplainGrant(businessID, grantID string) (scoring.Breakdown, bool) {
	business := e.repo.BusinessByID(businessID)
	grant := e.repo.GrantByID(grantID)
	if business == nil || grant == nil {
		return scoring.Breakdown{}, false
	}
	return scoring.Explain(business, grant), true
}

// MatchedGrants returns every grant scored for the business, best first.
func (e *Engine) MatchedGrants(businessID string) []models.ScoredGrant {
	grants := e.scorer.MatchedGrants(businessID)
	e.logger.Debug("matched grants",
		zap.String("business_id", businessID),
		zap.Int("count", len(grants)),
	)
	return grants
}

// EligibilityBreakdown evaluates every requirement of the grant for the business.
func (e *Engine) EligibilityBreakdown(businessID, grantID string) eligibility.Breakdown {
	return e.evaluator.Breakdown(businessID, grantID)
}

// SimilarGrants returns grants sharing the category of grantID. limit <= 0 uses the default.
func (e *Engine) SimilarGrants(grantID, businessID string, limit int) []models.ScoredGrant {
	return e.scorer.SimilarGrants(grantID, businessID, limit)
}

// RelatedGrants returns grants matching the tags and category of a thread.
func (e *Engine) RelatedGrants(threadID, businessID string) []models.ScoredGrant {
	thread := e.repo.ThreadByID(threadID)
	if thread == nil {
		return nil
	}
	return e.scorer.RelatedGrants(thread, businessID)
}

// UpcomingDeadlines returns grants closing within window days, soonest first.
func (e *Engine) UpcomingDeadlines(window int) []scoring.UpcomingGrant {
	return e.scorer.UpcomingDeadlines(e.now(), window)
}

// GrantCategories lists "All" followed by the sorted grant categories.
func (e *Engine) GrantCategories() []string {
	return e.scorer.GrantCategories()
}

// GrantsByCategory filters grants by category. "All" returns a copy of every grant.
func (e *Engine) GrantsByCategory(category string) []models.Grant {
	return e.scorer.GrantsByCategory(category)
}

// --- Matches ---

// MatchesForBusiness returns a copy of the stored forward edges of a business.
func (e *Engine) MatchesForBusiness(businessID string) []models.Match {
	stored := e.graph.ForwardMatches(businessID)
	matches := make([]models.Match, 0, len(stored))
	for _, m := range stored {
		m.Reasoning = m.Reasoning.Clone()
		matches = append(matches, m)
	}
	return matches
}

// MatchesWithBusinessDetails returns forward matches joined with both business records.
func (e *Engine) MatchesWithBusinessDetails(businessID string) []models.MatchView {
	return e.graph.MatchesWithBusinessDetails(businessID)
}

// ReciprocalMatches returns matches derived from other businesses' edges.
func (e *Engine) ReciprocalMatches(businessID string) []models.MatchView {
	return e.graph.ReciprocalMatches(businessID)
}

// AllMatches merges forward and reciprocal matches, one per partner.
func (e *Engine) AllMatches(businessID string) []models.MatchView {
	return e.graph.AllMatches(businessID)
}

// MatchesForTab returns the matchmaker view for a tab.
func (e *Engine) MatchesForTab(businessID string, tab matchgraph.Tab) []models.MatchView {
	return e.graph.MatchesForTab(businessID, tab)
}

// MatchTabs returns the matchmaker tab counts.
func (e *Engine) MatchTabs(businessID string) matchgraph.TabCounts {
	return e.graph.Tabs(businessID)
}

// --- Assistant ---

// ClassifyIntent returns the first intent whose keywords occur in text.
func (e *Engine) ClassifyIntent(text string) assistant.Intent {
	return assistant.Classify(text)
}

// Respond answers a free-text question for the business on the given page and
// returns the intent it was classified as. An unknown or empty businessID means
// no business is selected.
func (e *Engine) Respond(text, businessID, page string) (assistant.Response, assistant.Intent) {
	resp, intent := e.dispatcher.RespondWithIntent(text, e.assistantContext(businessID, page))
	e.logResponse(resp, intent, businessID, page)
	return resp, intent
}

// ProcessQuickAction runs a "query:" action and returns the intent of its text.
// Other actions yield an empty response and no intent.
func (e *Engine) ProcessQuickAction(action, businessID, page string) (assistant.Response, assistant.Intent) {
	resp, intent := e.dispatcher.ProcessQuickActionWithIntent(action, e.assistantContext(businessID, page))
	e.logResponse(resp, intent, businessID, page)
	return resp, intent
}

func (e *Engine) logResponse(resp assistant.Response, intent assistant.Intent, businessID, page string) {
	e.logger.Debug("assistant response",
		zap.String("intent", string(intent)),
		zap.String("business_id", businessID),
		zap.String("page", page),
		zap.Int("suggestions", len(resp.Suggestions)),
	)
}

// PageSpecificActions returns the quick actions shown on a page.
func (e *Engine) PageSpecificActions(page string) []assistant.QuickAction {
	return assistant.PageActions(page)
}

func (e *Engine) assistantContext(businessID, page string) assistant.Context {
	return assistant.Context{
		Business: e.repo.BusinessByID(businessID),
		Page:     page,
	}
}

// --- Discovery ---

// Dashboard builds the landing summary for a business.
func (e *Engine) Dashboard(businessID string) (*discovery.Dashboard, bool) {
	return e.discovery.Dashboard(businessID, e.now())
}

// ForumCategories lists forum categories, "All" first.
func (e *Engine) ForumCategories() []string {
	return e.discovery.ForumCategories()
}

// SearchThreads matches threads by title, content or tag.
func (e *Engine) SearchThreads(query string) []models.Thread {
	return e.discovery.SearchThreads(query)
}

// ThreadsByCategory filters threads by forum category.
func (e *Engine) ThreadsByCategory(category string) []models.Thread {
	return e.discovery.ThreadsByCategory(category)
}

// ThreadsByAuthor returns the threads started by a business.
func (e *Engine) ThreadsByAuthor(businessID string) []models.Thread {
	return e.discovery.ThreadsByAuthor(businessID)
}

// RelatedThreads returns threads sharing a category or tag with threadID.
func (e *Engine) RelatedThreads(threadID string) []models.Thread {
	return e.discovery.RelatedThreads(e.repo.ThreadByID(threadID))
}

// RepliesForThread returns the replies of a thread.
func (e *Engine) RepliesForThread(threadID string) []models.Reply {
	return e.discovery.RepliesForThread(threadID)
}

// RecentThreads returns the newest threads. limit <= 0 returns all of them.
func (e *Engine) RecentThreads(limit int) []models.Thread {
	return e.discovery.RecentThreads(limit)
}

// FilterJobs searches, filters and sorts job postings.
func (e *Engine) FilterJobs(q discovery.JobQuery) []models.Job {
	return e.discovery.FilterJobs(q)
}

// FilterTalents searches, filters and sorts talent profiles.
func (e *Engine) FilterTalents(q discovery.TalentQuery) []models.Talent {
	return e.discovery.FilterTalents(q)
}

// UniqueSkills lists every skill named by a job or talent, sorted.
func (e *Engine) UniqueSkills() []string {
	return e.discovery.UniqueSkills()
}
