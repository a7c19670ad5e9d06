// Package main provides a local HTTP server for development and testing.
// It serves the same handlers as the Lambda functions by translating each
// request into an API Gateway proxy event.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"auctus-engine/internal/bootstrap"
	"auctus-engine/internal/config"
	"auctus-engine/internal/handlers"
	"auctus-engine/internal/utils"
)

// maxBodyBytes bounds request bodies read by the adapter.
const maxBodyBytes = 1 << 20

// proxyHandler is the signature shared by every API Gateway handler.
type proxyHandler func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// route binds a mux pattern to the API Gateway resource it emulates.
type route struct {
	pattern  string
	resource string
	params   []string
	handler  proxyHandler
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger first
	if err := utils.InitLoggerWithOptions(utils.LoggerOptions{Level: cfg.LogLevel, JSON: cfg.IsProduction()}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer utils.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, err := bootstrap.NewEngine(ctx, cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to create engine", utils.Error(err))
	}

	health := handlers.NewHealthHandler(eng.Catalog(), cfg)
	assistant := handlers.NewAssistantHandler(eng)
	recommendations := handlers.NewRecommendationsHandler(eng)

	routes := []route{
		{pattern: "GET /health", resource: "/health", handler: health.Handle},
		{pattern: "GET /api/health", resource: "/health", handler: health.Handle},
		{pattern: "GET /assistant", resource: "/assistant", handler: assistant.Handle},
		{pattern: "POST /assistant", resource: "/assistant", handler: assistant.Handle},
		{pattern: "GET /grants/upcoming", resource: handlers.RouteUpcomingGrants, handler: recommendations.Handle},
		{pattern: "GET /businesses/{businessId}/grants", resource: handlers.RouteBusinessGrants, params: []string{"businessId"}, handler: recommendations.Handle},
		{pattern: "GET /businesses/{businessId}/grants/{grantId}", resource: handlers.RouteGrantDetail, params: []string{"businessId", "grantId"}, handler: recommendations.Handle},
		{pattern: "GET /businesses/{businessId}/matches", resource: handlers.RouteBusinessMatches, params: []string{"businessId"}, handler: recommendations.Handle},
		{pattern: "GET /businesses/{businessId}/dashboard", resource: handlers.RouteBusinessDashboard, params: []string{"businessId"}, handler: recommendations.Handle},
	}

	mux := http.NewServeMux()
	for _, rt := range routes {
		mux.HandleFunc(rt.pattern, adapt(rt))
	}

	// Setup CORS
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", handlers.RequestIDHeader},
		ExposedHeaders: []string{handlers.RequestIDHeader},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		Handler:           c.Handler(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			utils.Logger.Error("Server shutdown failed", utils.Error(err))
		}
	}()

	utils.Logger.Info("Auctus API server listening",
		utils.String("addr", srv.Addr),
		utils.String("catalog_source", cfg.CatalogSource),
		utils.Strings("cors_origins", cfg.CORSOrigins),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Logger.Fatal("Server failed", utils.Error(err))
	}
	utils.Logger.Info("Server stopped")
}

// adapt translates an HTTP request into an API Gateway proxy event and writes
// the handler's response back.
func adapt(rt route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		request := events.APIGatewayProxyRequest{
			Resource:              rt.resource,
			Path:                  r.URL.Path,
			HTTPMethod:            r.Method,
			Headers:               firstValues(r.Header),
			QueryStringParameters: firstValues(r.URL.Query()),
			PathParameters:        make(map[string]string, len(rt.params)),
			Body:                  string(body),
		}
		for _, name := range rt.params {
			request.PathParameters[name] = r.PathValue(name)
		}
		request.RequestContext.RequestID = r.Header.Get(handlers.RequestIDHeader)
		if request.RequestContext.RequestID == "" {
			request.RequestContext.RequestID = uuid.NewString()
		}

		start := time.Now()
		resp, err := rt.handler(r.Context(), request)
		if err != nil {
			utils.Logger.Error("Handler failed",
				utils.String("resource", rt.resource),
				utils.Error(err),
			)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		for key, value := range resp.Headers {
			// CORS is owned by rs/cors locally.
			if strings.HasPrefix(key, "Access-Control-") {
				continue
			}
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)

		utils.Logger.Debug("Request served",
			utils.String("method", r.Method),
			utils.String("path", r.URL.Path),
			utils.Int("status", resp.StatusCode),
			utils.Duration("elapsed", time.Since(start)),
		)
	}
}

// firstValues flattens multi-value headers or query parameters.
func firstValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, v := range values {
		if len(v) > 0 {
			out[key] = v[0]
		}
	}
	return out
}
