// API server entry point for SmartCompare Market.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamrodrigodev/smartcomparemarket/internal/application/analysis"
	"github.com/iamrodrigodev/smartcomparemarket/internal/application/comparison"
	"github.com/iamrodrigodev/smartcomparemarket/internal/application/product"
	"github.com/iamrodrigodev/smartcomparemarket/internal/application/recommendation"
	"github.com/iamrodrigodev/smartcomparemarket/internal/config"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/ontology"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/reasoner"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	httpserver "github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http"
	"github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http/handlers"
)

const (
	version           = "0.1.0"
	defaultConfigPath = "configs/config.yaml"
)

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: config file unusable, using environment and defaults: %v\n", err)
		cfg, err = config.LoadFromEnv()
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			os.Exit(1)
		}
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: init logger: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting SmartCompare Market API server",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	schema, err := ontology.Load(cfg.Ontology.Path, logger)
	if err != nil {
		return fmt.Errorf("load ontology: %w", err)
	}
	logger.Info("ontology loaded",
		logging.String("path", cfg.Ontology.Path),
		logging.Int("classes", len(schema.Classes())),
		logging.Int("categories", len(schema.Subclasses("Producto"))),
		logging.Int("individuals", schema.IndividualCount()),
	)

	sparqlClient, err := sparql.NewClient(sparql.ClientConfig{
		Endpoint:   cfg.SPARQL.Endpoint,
		Repository: cfg.SPARQL.Repository,
		Username:   cfg.SPARQL.Username,
		Password:   cfg.SPARQL.Password,
		Timeout:    cfg.SPARQL.Timeout,
	}, logger)
	if err != nil {
		return fmt.Errorf("init sparql client: %w", err)
	}

	// Without a reasoner endpoint the store is assumed to materialize
	// inferences itself, so freshness checks become no-ops.
	var runner reasoner.InferenceRunner = reasoner.RunnerFunc(func(context.Context) error { return nil })
	if cfg.Reasoner.RunURL != "" {
		httpRunner, err := reasoner.NewHTTPRunner(reasoner.HTTPRunnerConfig{
			RunURL:  cfg.Reasoner.RunURL,
			Timeout: cfg.Reasoner.Timeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("init reasoner runner: %w", err)
		}
		runner = httpRunner
	}
	var metrics *prometheus.Metrics
	if cfg.Metrics.Enabled {
		metrics = prometheus.New()
	}

	controller := reasoner.NewController(runner, reasoner.Config{TTL: cfg.Reasoner.TTL}, metrics, logger)

	productSvc := product.NewService(sparqlClient, controller, schema, metrics, logger)
	comparisonSvc := comparison.NewService(sparqlClient, productSvc, metrics, logger)
	recommendationSvc := recommendation.NewService(sparqlClient, controller, nil, metrics, logger)
	analysisSvc := analysis.NewService(sparqlClient, metrics, logger)

	healthHandler := handlers.NewHealthHandler(version,
		handlers.CheckerFunc{CheckerName: "sparql", Fn: func(ctx context.Context) error {
			_, err := sparqlClient.Select(ctx, "SELECT ?s WHERE { ?s ?p ?o } LIMIT 1", false)
			return err
		}},
	)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		ProductHandler:        handlers.NewProductHandler(productSvc),
		ComparisonHandler:     handlers.NewComparisonHandler(comparisonSvc),
		RecommendationHandler: handlers.NewRecommendationHandler(recommendationSvc),
		AnalysisHandler:       handlers.NewAnalysisHandler(analysisSvc),
		HealthHandler:         healthHandler,
		Logger:                logger,
		Metrics:               metrics,
		MetricsPath:           cfg.Metrics.Path,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
	}

	if err := srv.Stop(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
