package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okhotin/cliplink/app/api"
	"github.com/okhotin/cliplink/app/bot"
	"github.com/okhotin/cliplink/app/catalog"
	"github.com/okhotin/cliplink/app/cfg"
	"github.com/okhotin/cliplink/app/database"
	"github.com/okhotin/cliplink/app/source"
	"github.com/okhotin/cliplink/app/tasks"
)

func main() {
	// Optional .env file for local development
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	if appCfg.Debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	slog.Info("Starting Cliplink", "version", appCfg.Version)

	// Catalog storage backend
	var store catalog.Store
	if appCfg.StorageBackend == "sqlite" {
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

		store = catalog.NewSQLiteStore(db)
	} else {
		store = catalog.NewMemoryStore()
	}

	if lastUpdate, ok := store.Freshness(); ok {
		slog.Info("Catalog rehydrated from storage", "videos", len(store.AllTitles()), "last_update", lastUpdate)
	}

	// Channel configuration
	channels := source.NewChannelCache(appCfg.ChannelID, appCfg.ChannelsFile)
	if err := channels.Run(); err != nil {
		slog.Error("Failed to load channel configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Channels configured", "count", channels.GetChannelCount(), "enabled", len(channels.GetEnabled()))

	// Upstream source backend
	httpClient := &http.Client{}
	requestTimeout := time.Duration(appCfg.RequestTimeout) * time.Millisecond

	var client source.Client
	if appCfg.SourceBackend == "rss" {
		client = source.NewRSSClient(httpClient, appCfg.UserAgent, requestTimeout)
	} else {
		client = source.NewYouTubeClient(httpClient, appCfg.YouTubeAPIKey, appCfg.UserAgent, requestTimeout)
	}
	slog.Info("Source backend ready", "backend", appCfg.SourceBackend)

	// Background refresh scheduler
	scheduler := tasks.NewScheduler(store, client, channels)
	scheduler.Start()
	defer scheduler.Stop()

	// Query handler and chat transport
	queryHandler := bot.NewHandler(store, appCfg.MatchThreshold)

	if appCfg.DiscordToken != "" {
		discord, err := bot.NewDiscord(appCfg.DiscordToken, queryHandler)
		if err != nil {
			slog.Error("Failed to initialize Discord transport", "error", err)
			os.Exit(1)
		}
		if err := discord.Start(); err != nil {
			slog.Error("Failed to connect to Discord", "error", err)
			os.Exit(1)
		}
		defer discord.Stop()
	} else {
		slog.Info("No Discord token configured, running without chat transport")
	}

	// HTTP server
	apiHandler := api.NewHandler(store, queryHandler, scheduler, channels, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Cliplink started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler and transport are stopped via defer
	slog.Info("Shutdown complete")
}
