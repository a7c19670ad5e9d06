package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"auctus-engine/internal/catalog"
	appConfig "auctus-engine/internal/config"
)

// ServiceVersion is reported by the health check.
const ServiceVersion = "1.0.0"

// HealthHandler handles health check requests.
type HealthHandler struct {
	repo   catalog.Repository
	source string
	stage  string
	now    func() time.Time
}

// NewHealthHandler creates a new health handler over a loaded catalog.
func NewHealthHandler(repo catalog.Repository, cfg *appConfig.Config) *HealthHandler {
	return &HealthHandler{
		repo:   repo,
		source: cfg.CatalogSource,
		stage:  cfg.Stage,
		now:    time.Now,
	}
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	Stage     string         `json:"stage"`
	Source    string         `json:"catalog_source"`
	Catalog   *catalog.Stats `json:"catalog,omitempty"`
}

// Handle processes health check requests. The service is degraded when the
// catalog has no businesses or no grants.
func (h *HealthHandler) Handle(_ context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders(requestID(request), http.MethodGet)
	if resp, ok := preflight(request, headers); ok {
		return resp, nil
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Service:   "auctus-engine",
		Version:   ServiceVersion,
		Stage:     h.stage,
		Source:    h.source,
	}

	if h.repo == nil {
		response.Status = "degraded"
	} else {
		stats := catalogStats(h.repo)
		response.Catalog = &stats
		if stats.Businesses == 0 || stats.Grants == 0 {
			response.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	return jsonResponse(headers, statusCode, response)
}

func catalogStats(repo catalog.Repository) catalog.Stats {
	if snap, ok := repo.(*catalog.Snapshot); ok {
		return snap.Stats()
	}
	return catalog.Stats{
		Businesses: len(repo.Businesses()),
		Grants:     len(repo.Grants()),
		Threads:    len(repo.Threads()),
		Replies:    len(repo.Replies()),
		MatchLists: len(repo.MatchLists()),
		Jobs:       len(repo.Jobs()),
		Talents:    len(repo.Talents()),
	}
}
