package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brigade/internal/analytics"
	"brigade/internal/api"
	"brigade/internal/capability"
	"brigade/internal/config"
	"brigade/internal/logging"
	"brigade/internal/monitoring"
	"brigade/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	// .env carries secrets like OPENAI_API_KEY in local setups
	_ = godotenv.Load()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Metrics.Port = *metricsPort
	}

	log := logging.New(cfg.Log.Level, cfg.Log.File)

	model, err := initializeLLM(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM: %v", err)
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer st.Close()

	classifier := capability.NewLLMClassifier(model, cfg.LLM.Timeout(), log)
	summarizer := capability.NewLLMSummarizer(model, cfg.LLM.Timeout(), log)
	generator := capability.NewLLMGenerator(model, cfg.LLM.Timeout(), log)

	aggregator := analytics.NewAggregator(st)
	server := api.NewServer(
		st,
		aggregator,
		analytics.NewScorer(classifier),
		analytics.NewBucketer(classifier),
		analytics.NewSynthesizer(aggregator, classifier, summarizer, generator, log),
		log,
	)

	if cfg.Metrics.Enabled {
		go startMetricsServer(cfg.Metrics.Port, log)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("API server shutdown error: %v", err)
		}
	}()

	log.Infof("Starting API server on port %d", cfg.Server.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func initializeLLM(cfg config.Config) (llms.LLM, error) {
	llm, err := openai.New(
		openai.WithModel(cfg.LLM.Model),
		openai.WithToken(os.Getenv("OPENAI_API_KEY")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	return llm, nil
}

func startMetricsServer(port int, log *logrus.Logger) {
	metricsRouter := gin.New()
	metricsRouter.GET("/metrics", gin.WrapH(monitoring.MetricsHandler()))

	log.Infof("Starting metrics server on port %d", port)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), metricsRouter); err != nil {
		log.Errorf("Metrics server error: %v", err)
	}
}
