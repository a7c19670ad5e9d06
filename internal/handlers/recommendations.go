package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"auctus-engine/internal/models"
	"auctus-engine/internal/services/eligibility"
	"auctus-engine/internal/services/engine"
	"auctus-engine/internal/services/matchgraph"
	"auctus-engine/internal/services/scoring"
	"auctus-engine/internal/utils"
)

// API Gateway resource templates served by RecommendationsHandler.
const (
	RouteBusinessGrants    = "/businesses/{businessId}/grants"
	RouteGrantDetail       = "/businesses/{businessId}/grants/{grantId}"
	RouteBusinessMatches   = "/businesses/{businessId}/matches"
	RouteBusinessDashboard = "/businesses/{businessId}/dashboard"
	RouteUpcomingGrants    = "/grants/upcoming"
)

// Routes lists every resource template RecommendationsHandler serves.
func Routes() []string {
	return []string{
		RouteBusinessGrants,
		RouteGrantDetail,
		RouteBusinessMatches,
		RouteBusinessDashboard,
		RouteUpcomingGrants,
	}
}

const defaultUpcomingDays = 30

// RecommendationsHandler serves grant, eligibility, match and dashboard reads.
type RecommendationsHandler struct {
	engine *engine.Engine
}

// NewRecommendationsHandler creates a new recommendations handler.
func NewRecommendationsHandler(eng *engine.Engine) *RecommendationsHandler {
	return &RecommendationsHandler{engine: eng}
}

// GrantsResponse lists the scored grants of a business.
type GrantsResponse struct {
	BusinessID string               `json:"businessId"`
	Category   string               `json:"category,omitempty"`
	Grants     []models.ScoredGrant `json:"grants"`
}

// GrantDetailResponse is one grant scored and evaluated for a business.
type GrantDetailResponse struct {
	Grant       models.Grant          `json:"grant"`
	Score       scoring.Breakdown     `json:"score"`
	Eligibility eligibility.Breakdown `json:"eligibility"`
	Similar     []models.ScoredGrant  `json:"similar"`
}

// MatchesResponse is the matchmaker view of a business.
type MatchesResponse struct {
	BusinessID string               `json:"businessId"`
	Tab        matchgraph.Tab       `json:"tab"`
	Tabs       matchgraph.TabCounts `json:"tabs"`
	Matches    []models.MatchView   `json:"matches"`
}

// UpcomingResponse lists grants closing soon.
type UpcomingResponse struct {
	Days   int                     `json:"days"`
	Grants []scoring.UpcomingGrant `json:"grants"`
}

// Handle routes on the API Gateway resource template.
func (h *RecommendationsHandler) Handle(_ context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	reqID := requestID(request)
	headers := corsHeaders(reqID, http.MethodGet)
	if resp, ok := preflight(request, headers); ok {
		return resp, nil
	}
	if request.HTTPMethod != http.MethodGet {
		return errorResponse(headers, http.StatusMethodNotAllowed, "Method not allowed")
	}

	utils.Component("recommendations").Debug("Recommendation request",
		utils.String("request_id", reqID),
		utils.String("resource", request.Resource),
		utils.Any("path_parameters", request.PathParameters),
	)

	if request.Resource == RouteUpcomingGrants {
		return h.upcoming(headers, request)
	}

	businessID := request.PathParameters["businessId"]
	if h.engine.Business(businessID) == nil {
		return errorResponse(headers, http.StatusNotFound, "Business not found")
	}

	switch request.Resource {
	case RouteBusinessGrants:
		return h.grants(headers, request, businessID)
	case RouteGrantDetail:
		return h.grantDetail(headers, request, businessID)
	case RouteBusinessMatches:
		return h.matches(headers, request, businessID)
	case RouteBusinessDashboard:
		dash, _ := h.engine.Dashboard(businessID)
		return jsonResponse(headers, http.StatusOK, dash)
	default:
		return errorResponse(headers, http.StatusNotFound, "Unknown resource")
	}
}

func (h *RecommendationsHandler) grants(headers map[string]string, request events.APIGatewayProxyRequest, businessID string) (events.APIGatewayProxyResponse, error) {
	category := request.QueryStringParameters["category"]
	grants := h.engine.MatchedGrants(businessID)

	if category != "" && category != models.IndustryAll {
		filtered := make([]models.ScoredGrant, 0, len(grants))
		for _, g := range grants {
			if g.Category == category {
				filtered = append(filtered, g)
			}
		}
		grants = filtered
	}

	return jsonResponse(headers, http.StatusOK, GrantsResponse{
		BusinessID: businessID,
		Category:   category,
		Grants:     nonNil(grants),
	})
}

func (h *RecommendationsHandler) grantDetail(headers map[string]string, request events.APIGatewayProxyRequest, businessID string) (events.APIGatewayProxyResponse, error) {
	grantID := request.PathParameters["grantId"]
	grant := h.engine.Grant(grantID)
	if grant == nil {
		return errorResponse(headers, http.StatusNotFound, "Grant not found")
	}

	score, _ := h.engine.ExplainGrant(businessID, grantID)
	return jsonResponse(headers, http.StatusOK, GrantDetailResponse{
		Grant:       *grant,
		Score:       score,
		Eligibility: h.engine.EligibilityBreakdown(businessID, grantID),
		Similar:     nonNil(h.engine.SimilarGrants(grantID, businessID, scoring.DefaultSimilarLimit)),
	})
}

func (h *RecommendationsHandler) matches(headers map[string]string, request events.APIGatewayProxyRequest, businessID string) (events.APIGatewayProxyResponse, error) {
	tab := matchgraph.Tab(request.QueryStringParameters["tab"])
	switch tab {
	case "":
		tab = matchgraph.TabAll
	case matchgraph.TabAll, matchgraph.TabYouNeed, matchgraph.TabYouOffer, matchgraph.TabMutual:
	default:
		return errorResponse(headers, http.StatusBadRequest, "tab must be all, you-need, you-offer or mutual")
	}

	return jsonResponse(headers, http.StatusOK, MatchesResponse{
		BusinessID: businessID,
		Tab:        tab,
		Tabs:       h.engine.MatchTabs(businessID),
		Matches:    nonNil(h.engine.MatchesForTab(businessID, tab)),
	})
}

func (h *RecommendationsHandler) upcoming(headers map[string]string, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	days := defaultUpcomingDays
	if raw := request.QueryStringParameters["days"]; raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return errorResponse(headers, http.StatusBadRequest, "days must be a positive integer")
		}
		days = n
	}

	return jsonResponse(headers, http.StatusOK, UpcomingResponse{
		Days:   days,
		Grants: nonNil(h.engine.UpcomingDeadlines(days)),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
