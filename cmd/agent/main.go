package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"

	"ainews/internal/config"
	"ainews/internal/stage"
	"ainews/internal/workflow"
	"ainews/pkg/llm"
	"ainews/pkg/news"
	"ainews/pkg/notify"
)

const runTimeout = 5 * time.Minute

func main() {

	godotenv.Load()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	orchestrator, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		log.Fatalf("error building workflow: %v", err)
	}

	resp := orchestrator.Run(ctx, workflow.Event{CorrelationID: os.Getenv("CORRELATION_ID")})
	fmt.Println(resp.Body)

	if resp.StatusCode >= 500 {
		os.Exit(1)
	}
}

func buildOrchestrator(ctx context.Context, cfg *config.Config) (*workflow.Orchestrator, error) {
	logger := slog.Default()

	source := news.NewGoogleNewsClient(cfg.MaxArticles, 30)

	generator, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating model client: %w", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("error loading AWS configuration: %w", err)
	}
	notifier := notify.NewSNSNotifier(awsCfg, cfg.TopicARN)

	fetcher := stage.NewFetchStage(source, cfg.SearchQuery, cfg.TimeRangeHours, cfg.MaxArticles, logger)
	summarizer := stage.NewSummarizeStage(generator, cfg.SummaryLength, logger)
	publisher := stage.NewPublishStage(notifier, cfg.TimeRangeHours, logger)

	return workflow.New(cfg, fetcher, summarizer, publisher, logger, workflow.Options{}), nil
}
