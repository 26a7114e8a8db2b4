package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/zhe.chen/agent-geo-director/internal/api"
	"github.com/zhe.chen/agent-geo-director/internal/config"
	"github.com/zhe.chen/agent-geo-director/internal/locator"
	"github.com/zhe.chen/agent-geo-director/internal/media"
	"github.com/zhe.chen/agent-geo-director/internal/metrics"
	"github.com/zhe.chen/agent-geo-director/internal/pipeline"
	"github.com/zhe.chen/agent-geo-director/pkg/logger"

	claudeprovider "github.com/zhe.chen/agent-geo-director/internal/geo/providers/claude"
	openaiprovider "github.com/zhe.chen/agent-geo-director/internal/geo/providers/openai"
)

// createExtractor selects the location extractor based on configuration.
func createExtractor(cfg *config.Config, zlog *zap.Logger) (pipeline.Extractor, error) {
	switch cfg.Extractor.Provider {
	case config.ProviderOpenAI:
		return openaiprovider.NewProvider(cfg.OpenAI, cfg.Extractor.Mode, zlog), nil

	case config.ProviderAnthropic:
		return claudeprovider.NewProvider(cfg.Anthropic, zlog), nil

	default:
		return nil, fmt.Errorf("unsupported extractor provider: %s", cfg.Extractor.Provider)
	}
}

func main() {
	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	configPath := flag.String("config", "", "Path to optional YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	if err := media.CheckDependencies(); err != nil {
		zlog.Fatal("dependency check failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Google.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		zlog.Fatal("failed to create gemini client", zap.Error(err))
	}

	extractor, err := createExtractor(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to create extractor", zap.Error(err))
	}

	pipe := pipeline.New(
		media.NewFetcher(cfg.Pipeline.MaxResolution, zlog),
		locator.NewGeminiLocator(genaiClient, cfg.Google, zlog),
		media.NewSampler(zlog),
		extractor,
		cfg.Pipeline.WorkDir,
		zlog,
	)

	zlog.Info("starting agent-geo-director",
		zap.String("extractor_provider", cfg.Extractor.Provider),
		zap.String("extractor_mode", cfg.Extractor.Mode),
		zap.String("work_dir", cfg.Pipeline.WorkDir),
	)

	apiSrv := api.StartServer(cfg.Server.HTTPPort, api.NewHandler(pipe, zlog), zlog)
	metricsSrv := metrics.StartServer(cfg.Server.MetricsPort, zlog)

	// Block until an interrupt, then drain both servers.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	zlog.Info("received interrupt signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http server shutdown error", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("metrics server shutdown error", zap.Error(err))
	}

	zlog.Info("shutdown complete")
}
