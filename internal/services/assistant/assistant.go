// Package assistant answers free-text questions about a business by keyword
// classification. The first intent whose keywords appear in the text decides
// the response.
package assistant

import (
	"strings"
	"time"

	"auctus-engine/internal/catalog"
	"auctus-engine/internal/models"
	"auctus-engine/internal/services/matchgraph"
	"auctus-engine/internal/services/scoring"
)

// QueryPrefix marks a quick action that re-asks the assistant instead of navigating.
const QueryPrefix = "query:"

// SuggestionType is the kind of record a suggestion links to.
type SuggestionType string

const (
	SuggestionGrant  SuggestionType = "grant"
	SuggestionThread SuggestionType = "thread"
	SuggestionMatch  SuggestionType = "match"
	SuggestionPage   SuggestionType = "page"
)

// Suggestion is a recommended record shown under a response.
type Suggestion struct {
	Type        SuggestionType `json:"type"`
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Link        string         `json:"link,omitempty"`
}

// QuickAction is a clickable chip. Action is either a path or QueryPrefix followed by text.
type QuickAction struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// IsQuery reports whether the action re-runs the assistant.
func (a QuickAction) IsQuery() bool {
	return strings.HasPrefix(a.Action, QueryPrefix)
}

// Response is the assistant's answer.
type Response struct {
	Message      string        `json:"message"`
	Suggestions  []Suggestion  `json:"suggestions,omitempty"`
	QuickActions []QuickAction `json:"quickActions,omitempty"`
}

// Context carries the caller's selected business and current page path.
type Context struct {
	Business *models.Business
	Page     string
}

// Intent is the classified purpose of a message.
type Intent string

const (
	IntentNone             Intent = ""
	IntentGrant            Intent = "grant"
	IntentPartnership      Intent = "partnership"
	IntentDeadline         Intent = "deadline"
	IntentForum            Intent = "forum"
	IntentRegistration     Intent = "registration"
	IntentPermits          Intent = "permits"
	IntentMatchExplanation Intent = "match_explanation"
	IntentNavigation       Intent = "navigation"
	IntentTalent           Intent = "talent"
)

type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules are checked in order. "match" appears under both partnership and
// match explanation; partnership wins because it is checked first.
var intentRules = []intentRule{
	{IntentGrant, []string{"grant", "funding", "money", "capital", "loan", "apply", "eligible"}},
	{IntentPartnership, []string{"partner", "collaboration", "supplier", "connect", "network", "business match"}},
	{IntentDeadline, []string{"deadline", "closing", "urgent", "soon", "expires", "due"}},
	{IntentForum, []string{"forum", "help", "question", "advice", "community", "post", "thread"}},
	{IntentRegistration, []string{"register", "start", "setup", "new business", "incorporate", "how do i start"}},
	{IntentPermits, []string{"permit", "license", "legal", "requirement", "compliance", "regulations", "city"}},
	{IntentMatchExplanation, []string{"match", "percentage", "score", "calculate", "how does"}},
	{IntentNavigation, []string{"where", "how do i", "find", "show me"}},
	{IntentTalent, []string{"hire", "talent", "job", "employee", "staff"}},
}

// Intents lists every intent in priority order.
func Intents() []Intent {
	intents := make([]Intent, 0, len(intentRules))
	for _, r := range intentRules {
		intents = append(intents, r.intent)
	}
	return intents
}

// Keywords returns the keyword set of an intent.
func Keywords(intent Intent) []string {
	for _, r := range intentRules {
		if r.intent == intent {
			return append([]string(nil), r.keywords...)
		}
	}
	return nil
}

func normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify returns the first intent whose keywords occur in text, or IntentNone.
func Classify(text string) Intent {
	return classify(normalize(text))
}

func classify(message string) Intent {
	if message == "" {
		return IntentNone
	}
	for _, r := range intentRules {
		if containsAny(message, r.keywords...) {
			return r.intent
		}
	}
	return IntentNone
}

type handlerFunc func(message string, ctx Context) Response

// Dispatcher routes classified messages to their handlers.
type Dispatcher struct {
	repo     catalog.Repository
	scorer   *scoring.Scorer
	graph    *matchgraph.Graph
	now      func() time.Time
	handlers map[Intent]handlerFunc
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithClock sets the time source used for deadline answers.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// NewDispatcher creates a dispatcher over the catalog and the scoring and match services.
func NewDispatcher(repo catalog.Repository, scorer *scoring.Scorer, graph *matchgraph.Graph, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:   repo,
		scorer: scorer,
		graph:  graph,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.handlers = map[Intent]handlerFunc{
		IntentGrant:            d.handleGrant,
		IntentPartnership:      d.handlePartnership,
		IntentDeadline:         d.handleDeadline,
		IntentForum:            d.handleForum,
		IntentRegistration:     d.handleRegistration,
		IntentPermits:          d.handlePermits,
		IntentMatchExplanation: d.handleMatchExplanation,
		IntentNavigation:       d.handleNavigation,
		IntentTalent:           d.handleTalent,
	}
	return d
}

// Respond answers a message in the given context.
func (d *Dispatcher) Respond(text string, ctx Context) Response {
	resp, _ := d.RespondWithIntent(text, ctx)
	return resp
}

// RespondWithIntent is Respond that also returns the intent the message was
// classified as. An empty message yields IntentNone.
func (d *Dispatcher) RespondWithIntent(text string, ctx Context) (Response, Intent) {
	message := normalize(text)

	if message == "" {
		return Response{
			Message:      greetingMessage,
			QuickActions: PageActions(ctx.Page),
		}, IntentNone
	}

	intent := classify(message)
	if ctx.Business == nil {
		return noBusinessResponse(), intent
	}

	if handler, ok := d.handlers[intent]; ok {
		return handler(message, ctx), intent
	}
	return d.handleDefault(message, ctx), intent
}

// ProcessQuickAction re-runs Respond for query actions. Navigation actions return
// an empty response; the caller performs the navigation.
func (d *Dispatcher) ProcessQuickAction(action string, ctx Context) Response {
	resp, _ := d.ProcessQuickActionWithIntent(action, ctx)
	return resp
}

// ProcessQuickActionWithIntent is ProcessQuickAction that also returns the
// intent of the query text. Navigation actions yield IntentNone.
func (d *Dispatcher) ProcessQuickActionWithIntent(action string, ctx Context) (Response, Intent) {
	if query, ok := strings.CutPrefix(action, QueryPrefix); ok {
		return d.RespondWithIntent(query, ctx)
	}
	return Response{}, IntentNone
}

func containsAny(text string, substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}
