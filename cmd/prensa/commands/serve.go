package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prensa-cms/prensa/pkg/prensa/api"
	"github.com/prensa-cms/prensa/pkg/prensa/seed"
)

// serveCmd starts the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the JSON API server.

Registration and login are open; all other endpoints require the
bearer token returned by login. With the demo fixture enabled the
accounts admin/admin, user1/user1 and user2/user2 are available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := cfg.Logger()

	svc, err := cfg.BuildService()
	if err != nil {
		return fmt.Errorf("failed to build service: %w", err)
	}

	if cfg.SeedDemo {
		if _, err := seed.Load(context.Background(), svc, cfg.MediaDir); err != nil {
			return fmt.Errorf("failed to load demo fixture: %w", err)
		}
		logger.Info("demo fixture loaded", "media_dir", cfg.MediaDir)
	}

	server := api.NewServer(svc, []byte(cfg.JWTSecret), logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: server.Routes(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("prensa server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
