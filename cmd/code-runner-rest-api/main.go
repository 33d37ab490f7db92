// cmd/code-runner-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	v1 "code_runner_service/internal/api/rest/v1"
	"code_runner_service/internal/app"
	"code_runner_service/internal/domain/artifacts"
	domainexec "code_runner_service/internal/domain/execution"
	"code_runner_service/internal/domain/runs"
	"code_runner_service/internal/infrastructure/connector"
	infraexec "code_runner_service/internal/infrastructure/execution"
	"code_runner_service/internal/infrastructure/persistence"
	"code_runner_service/internal/infrastructure/persistence/models"
	"code_runner_service/internal/infrastructure/workspace"
	"code_runner_service/internal/pkg/config"
	"code_runner_service/internal/pkg/logger"
	"code_runner_service/internal/pkg/workers"
	"github.com/gin-contrib/cors"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "../../configs/rest-app.yaml"
	}

	restConfig, err := config.InitializeRestConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&restConfig.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(restConfig, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(restConfig, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	services *appServices
}

type appServices struct {
	runSubmission runs.RunSubmissionService
	runMetadata   runs.RunMetadataService
	runArtifact   runs.RunArtifactService
}

// initializeDependencies sets up all application components
func initializeDependencies(cfg *config.RestConfig, log logger.Logger) (*appDependencies, error) {
	// Initialize database
	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create db connection: %w", err)
	}

	// Run migrations
	if err := db.AutoMigrate(&models.RunModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info("Database migrations completed successfully")

	// Initialize repositories
	runRepo, err := persistence.NewGormRunRepository(db, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create run repository: %w", err)
	}

	// Initialize the artifact connector
	ctx := context.Background()
	artifactConnector, err := initializeArtifactConnector(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact connector: %w", err)
	}

	// Initialize execution components
	limits := domainexec.Limits{
		MaxRunSeconds:  cfg.Executor.MaxRunSeconds,
		MaxOutputBytes: cfg.Executor.MaxOutputBytes,
		MaxMemoryBytes: cfg.Executor.MaxMemoryBytes,
	}

	executor, err := infraexec.NewPythonExecutor(limits, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create executor: %w", err)
	}

	provisioner, err := infraexec.NewVenvProvisioner(cfg.Executor.PythonPath, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create provisioner: %w", err)
	}

	workspaces, err := workspace.NewManager(cfg.Executor.BaseWorkDir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace manager: %w", err)
	}

	pool, err := workers.NewPool(cfg.Executor.MaxConcurrentRuns)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	// Initialize services
	services, err := initializeApplicationServices(cfg, runRepo, artifactConnector, executor, provisioner, workspaces, pool, limits, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &appDependencies{services: services}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.RestConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r,
		deps.services.runSubmission,
		deps.services.runMetadata,
		deps.services.runArtifact,
		cfg.Server.APIKey,
		cfg.Server.RequestTimeout(),
	)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal %v, initiating graceful shutdown", sig)
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}

// initializeArtifactConnector sets up the configured artifact store
func initializeArtifactConnector(ctx context.Context, cfg *config.RestConfig, log logger.Logger) (artifacts.ArtifactConnector, error) {
	switch cfg.ArtifactConnector.Provider {
	case config.AzureStorageProvider:
		azureConnector, err := connector.NewAzureArtifactConnector(ctx, &cfg.ArtifactConnector, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure artifact connector: %w", err)
		}
		log.Info("Azure artifact connector initialized successfully")
		return azureConnector, nil
	case config.FsStorageProvider:
		fsConnector, err := connector.NewFsArtifactConnector(&cfg.ArtifactConnector, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create filesystem artifact connector: %w", err)
		}
		log.Info("Filesystem artifact connector initialized successfully")
		return fsConnector, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.ArtifactConnector.Provider)
	}
}

// initializeApplicationServices sets up all application services
func initializeApplicationServices(
	cfg *config.RestConfig,
	runRepo runs.RunRepository,
	artifactConnector artifacts.ArtifactConnector,
	executor domainexec.Executor,
	provisioner domainexec.Provisioner,
	workspaces app.WorkspaceManager,
	pool *workers.Pool,
	limits domainexec.Limits,
	log logger.Logger,
) (*appServices, error) {
	runSubmissionService, err := app.NewRunSubmissionService(
		runRepo, artifactConnector,
		executor, provisioner, workspaces, pool,
		limits, cfg.Executor.KeepWorkspaces, log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run submission service: %w", err)
	}

	runMetadataService, err := app.NewRunMetadataService(runRepo, artifactConnector, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create run metadata service: %w", err)
	}

	runArtifactService, err := app.NewRunArtifactService(runRepo, artifactConnector, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create run artifact service: %w", err)
	}

	log.Info("Application services initialized successfully")
	return &appServices{
		runSubmission: runSubmissionService,
		runMetadata:   runMetadataService,
		runArtifact:   runArtifactService,
	}, nil
}
