// Package handlers provides API Gateway handlers for the recommendation engine.
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id back to the caller.
const RequestIDHeader = "X-Request-Id"

// corsHeaders returns the response headers for a handler allowing methods.
func corsHeaders(requestID string, methods ...string) map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,Authorization",
		"Access-Control-Allow-Methods": strings.Join(append(methods, http.MethodOptions), ","),
		"Content-Type":                 "application/json",
		RequestIDHeader:                requestID,
	}
}

// requestID prefers the API Gateway request id and falls back to a new uuid.
func requestID(request events.APIGatewayProxyRequest) string {
	if id := request.RequestContext.RequestID; id != "" {
		return id
	}
	if id := request.Headers[RequestIDHeader]; id != "" {
		return id
	}
	return uuid.NewString()
}

// preflight answers CORS preflight requests. ok is false for any other method.
func preflight(request events.APIGatewayProxyRequest, headers map[string]string) (events.APIGatewayProxyResponse, bool) {
	if request.HTTPMethod != http.MethodOptions {
		return events.APIGatewayProxyResponse{}, false
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    headers,
	}, true
}

// jsonResponse encodes v as the response body.
func jsonResponse(headers map[string]string, statusCode int, v interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return errorResponse(headers, http.StatusInternalServerError, "Failed to encode response")
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(headers map[string]string, statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(map[string]string{
		"error":   http.StatusText(statusCode),
		"message": message,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    headers,
		Body:       string(body),
	}, nil
}
