package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/insightflow/config"
	"github.com/spacesedan/insightflow/internal/capabilities"
	"github.com/spacesedan/insightflow/internal/clients"
	"github.com/spacesedan/insightflow/internal/logging"
	"github.com/spacesedan/insightflow/internal/report"
	"github.com/spacesedan/insightflow/internal/sink"
	"github.com/spacesedan/insightflow/internal/source"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.AnalyzerFromEnv()
	caps := buildProviders()

	src, cleanup, err := buildSource(ctx)
	if err != nil {
		slog.Error("[Main] Failed to initialize comment source",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	comments, err := src.Fetch(ctx)
	if err != nil {
		slog.Error("[Main] Failed to fetch comments",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	assembled, err := report.NewAssembler(cfg, caps).Assemble(ctx, comments)
	if err != nil {
		slog.Error("[Main] Batch analysis failed",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := buildSink().Store(ctx, assembled); err != nil {
		slog.Error("[Main] Failed to persist report",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// buildProviders wires every optional capability that the environment
// enables. Each one degrades to its documented fallback when absent.
func buildProviders() capabilities.Providers {
	var caps capabilities.Providers

	if modelDir := os.Getenv("MODEL_DIR"); modelDir != "" {
		hugot, err := capabilities.NewHugotProvider(modelDir)
		if err != nil {
			slog.Warn("[Main] Local model provider unavailable, continuing without it",
				slog.String("error", err.Error()))
		} else {
			caps.Sentiment = hugot
			caps.Emotions = hugot.Emotions()
		}
	}

	zeroShot := capabilities.NewRemoteZeroShotProvider()
	if zeroShot.Available() {
		caps.ZeroShot = zeroShot
	}

	summarizer := capabilities.NewOpenAISummarizer()
	if summarizer.Available() {
		caps.Summarizer = summarizer
	}

	if os.Getenv("VALKEY_INIT_ADDRESS") != "" {
		vc, err := clients.InitValkey()
		if err != nil {
			slog.Warn("[Main] Valkey unavailable, capability outputs will not be pinned",
				slog.String("error", err.Error()))
		} else {
			caps = capabilities.WithCache(caps, vc)
		}
	}

	return caps
}

func buildSource(ctx context.Context) (source.CommentSource, func(), error) {
	if path := os.Getenv("COMMENTS_FILE"); path != "" {
		return source.NewFileSource(path), func() {}, nil
	}

	kafkaSource, err := source.NewKafkaSource(source.GetKafkaConfig())
	if err != nil {
		return nil, nil, err
	}
	return kafkaSource, kafkaSource.Close, nil
}

func buildSink() sink.ReportSink {
	if table := os.Getenv("DYNAMODB_REPORTS_TABLE"); table != "" {
		return sink.NewDynamoDBSink(table)
	}

	dir := os.Getenv("REPORT_DIR")
	if dir == "" {
		dir = "reports"
	}
	return sink.NewFileSink(dir)
}
