package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"auctus-engine/internal/services/assistant"
	"auctus-engine/internal/services/engine"
	"auctus-engine/internal/utils"
)

// maxMessageLength bounds the assistant input.
const maxMessageLength = 2000

// AssistantHandler answers assistant questions and quick actions.
type AssistantHandler struct {
	engine *engine.Engine
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(eng *engine.Engine) *AssistantHandler {
	return &AssistantHandler{engine: eng}
}

// AssistantRequest is the POST body of an assistant call. When Action is set it is
// processed as a quick action and Message is ignored.
type AssistantRequest struct {
	Message    string `json:"message"`
	Action     string `json:"action,omitempty"`
	BusinessID string `json:"businessId"`
	Page       string `json:"page"`
}

// AssistantResponse wraps the engine response with the classified intent.
type AssistantResponse struct {
	assistant.Response
	Intent assistant.Intent `json:"intent,omitempty"`
}

// PageActionsResponse lists the quick actions for a page.
type PageActionsResponse struct {
	Page         string                  `json:"page"`
	QuickActions []assistant.QuickAction `json:"quickActions"`
}

// Handle processes assistant requests. GET returns the quick actions for ?page=.
func (h *AssistantHandler) Handle(_ context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	reqID := requestID(request)
	headers := corsHeaders(reqID, http.MethodGet, http.MethodPost)
	if resp, ok := preflight(request, headers); ok {
		return resp, nil
	}

	logger := utils.Component("assistant").With(utils.String("request_id", reqID))

	switch request.HTTPMethod {
	case http.MethodGet:
		page := request.QueryStringParameters["page"]
		return jsonResponse(headers, http.StatusOK, PageActionsResponse{
			Page:         page,
			QuickActions: h.engine.PageSpecificActions(page),
		})

	case http.MethodPost:
		var req AssistantRequest
		if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
			return errorResponse(headers, http.StatusBadRequest, "Invalid request body")
		}
		if len(req.Message) > maxMessageLength || len(req.Action) > maxMessageLength {
			return errorResponse(headers, http.StatusRequestEntityTooLarge, "Message is too long")
		}

		start := time.Now()
		var resp AssistantResponse
		if req.Action != "" {
			resp.Response, resp.Intent = h.engine.ProcessQuickAction(req.Action, req.BusinessID, req.Page)
		} else {
			resp.Response, resp.Intent = h.engine.Respond(req.Message, req.BusinessID, req.Page)
		}

		logger.Info("Assistant request handled",
			utils.String("business_id", req.BusinessID),
			utils.String("page", req.Page),
			utils.String("intent", string(resp.Intent)),
			utils.Duration("elapsed", time.Since(start)),
		)

		return jsonResponse(headers, http.StatusOK, resp)

	default:
		return errorResponse(headers, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
