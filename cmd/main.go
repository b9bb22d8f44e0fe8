package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"muselib/internal/api"
	"muselib/internal/session"
	"muselib/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	shared.LoadDotenv()

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	tokenPath, err := config.TokenPath()
	if err != nil {
		logger.Fatalf("failed to resolve token path: %v", err)
	}

	store, err := session.NewStore(tokenPath)
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}

	httpClient := http.DefaultClient
	if config.Server.TimeoutSeconds > 0 {
		httpClient = &http.Client{Timeout: time.Duration(config.Server.TimeoutSeconds) * time.Second}
	}

	client := api.NewClient(config.Server.BaseURL, store, httpClient)
	client.SetRate(config.Server.RequestsPerSecond)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		Client:     client,
		Store:      store,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "muselib",
		Usage:    "Browse, search, and manage a music library from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not logged in, run 'muselib auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
