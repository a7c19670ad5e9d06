// Recommendations Lambda entry point
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

	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	eng, err := bootstrap.NewEngine(context.Background(), cfg)
	if err != nil {
		panic("Failed to create engine: " + err.Error())
	}

	handler := handlers.NewRecommendationsHandler(eng)
	lambda.Start(handler.Handle)
}
