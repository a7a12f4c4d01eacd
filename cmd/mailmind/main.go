package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mailmind/mailmind/internal/config"
	"github.com/mailmind/mailmind/internal/core"
	"github.com/mailmind/mailmind/internal/di"
	"github.com/mailmind/mailmind/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	smtpIngest ports.EmailIngest,
	llmClient core.LLMClient,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	if !cfg.GetIngest().Enabled {
		return fmt.Errorf("ingest.enabled is false, nothing to run (use mail-triage for one-shot analysis)")
	}

	// Start the inbound listener
	if err := smtpIngest.Start(); err != nil {
		logger.Fatal("Failed to start SMTP ingest", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	if err := smtpIngest.Stop(); err != nil {
		logger.Error("Failed to stop SMTP ingest", zap.Error(err))
	}

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}

	// Stop the cache if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
