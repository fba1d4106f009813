package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thaiba/mediatasks/internal/adapters/sheets"
	"github.com/thaiba/mediatasks/internal/infrastructure/config"
	"github.com/thaiba/mediatasks/internal/infrastructure/logger"
	"github.com/thaiba/mediatasks/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the task sync API server",
		Long:  "Start the API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewCheckCommand creates the connectivity check command. It answers the
// question every misconfigured deployment asks first: can this service
// account see that spreadsheet at all?
func NewCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify spreadsheet connectivity",
		Long:  "Load configuration, authenticate the service account, and list the spreadsheet's tabs",
		Run: func(cmd *cobra.Command, args []string) {
			runCheck()
		},
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print mediatasks version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Thaiba Media Tasks v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	store, err := sheets.New(context.Background(), sheets.Config{
		SpreadsheetID:      cfg.Sheets.SpreadsheetID,
		ServiceAccountJSON: cfg.Sheets.ServiceAccountJSON,
		ClientEmail:        cfg.Sheets.ClientEmail,
		PrivateKey:         cfg.Sheets.PrivateKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize sheet store", "error", err)
	}

	srv, err := server.New(cfg, store, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting task sync API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"tasks_tab", cfg.Sheets.TasksTab,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Info("Server stopped", "reason", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Graceful shutdown failed", "error", err)
	}
}

func runCheck() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sheets.RequestTimeout)
	defer cancel()

	store, err := sheets.New(ctx, sheets.Config{
		SpreadsheetID:      cfg.Sheets.SpreadsheetID,
		ServiceAccountJSON: cfg.Sheets.ServiceAccountJSON,
		ClientEmail:        cfg.Sheets.ClientEmail,
		PrivateKey:         cfg.Sheets.PrivateKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize sheet store: %v", err)
	}

	info, err := store.Describe(ctx)
	if err != nil {
		log.Fatalf("Connection check failed: %v", err)
	}

	fmt.Printf("Connected to %q\n", info.Title)
	fmt.Printf("Tabs (%d):\n", len(info.Tabs))
	for _, tab := range info.Tabs {
		fmt.Printf("  - %s\n", tab)
	}
}
