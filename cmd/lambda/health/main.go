// Health Check Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"auctus-engine/internal/bootstrap"
	"auctus-engine/internal/config"
	"auctus-engine/internal/handlers"
	"auctus-engine/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	snap, err := bootstrap.LoadCatalog(context.Background(), cfg)
	if err != nil {
		utils.Logger.Error("Failed to load catalog", utils.Error(err))
	}

	// A nil snapshot reports degraded instead of failing the cold start
	handler := handlers.NewHealthHandler(nil, cfg)
	if snap != nil {
		handler = handlers.NewHealthHandler(snap, cfg)
	}

	// Start Lambda
	lambda.Start(handler.Handle)
}
