package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ainews/internal/config"
	"ainews/internal/handler"
	"ainews/internal/stage"
	"ainews/internal/workflow"
	"ainews/pkg/llm"
	"ainews/pkg/news"
	"ainews/pkg/notify"
)

func main() {

	godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	ctx := context.Background()

	generator, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("error creating model client: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		log.Fatalf("error loading AWS configuration: %v", err)
	}
	notifier := notify.NewSNSNotifier(awsCfg, cfg.TopicARN)

	source := news.NewGoogleNewsClient(cfg.MaxArticles, 30)
	logger := slog.Default()

	fetcher := stage.NewFetchStage(source, cfg.SearchQuery, cfg.TimeRangeHours, cfg.MaxArticles, logger)
	summarizer := stage.NewSummarizeStage(generator, cfg.SummaryLength, logger)
	publisher := stage.NewPublishStage(notifier, cfg.TimeRangeHours, logger)
	orchestrator := workflow.New(cfg, fetcher, summarizer, publisher, logger, workflow.Options{})

	agentHandler := handler.NewAgentHandler(orchestrator, notifier)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/run", agentHandler.RunWorkflow)
	r.GET("/subscriptions", agentHandler.GetSubscriptions)
	r.POST("/subscriptions/confirm", agentHandler.ConfirmSubscription)
	r.GET("/health", agentHandler.GetHealth)

	err = r.Run(":" + port())
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}

func port() string {
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
