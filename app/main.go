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

	"newspulse/app/aggregator"
	"newspulse/app/api"
	"newspulse/app/cache"
	"newspulse/app/cfg"
	"newspulse/app/dedup"
	"newspulse/app/feed"
	"newspulse/app/fetch"
	"newspulse/app/newsletter"
	"newspulse/app/scheduler"
	"newspulse/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting newspulse server", "version", appCfg.Version)

	// Source registry: startup is fatal on malformed configuration.
	registry, err := sources.Load(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources", "file", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "file", appCfg.SourcesFile, "count", registry.Count())

	// Cache backend: Redis when configured, in-process otherwise. A broken
	// Redis falls back to memory; caching never blocks content delivery.
	var store cache.Cache
	if appCfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(appCfg.RedisAddr)
		if err != nil {
			slog.Warn("Redis unavailable, falling back to in-process cache", "addr", appCfg.RedisAddr, "error", err)
			store = cache.NewMemoryCache()
		} else {
			defer redisCache.Close()
			slog.Info("Connected to Redis cache", "addr", appCfg.RedisAddr)
			store = redisCache
		}
	} else {
		store = cache.NewMemoryCache()
	}

	// Core pipeline components
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        20,
			IdleConnTimeout:     30 * time.Second,
			MaxIdleConnsPerHost: 5,
		},
	}

	fetcher := fetch.NewFetcher(httpClient, fetch.Options{
		UserAgent:     appCfg.UserAgent,
		Timeout:       time.Duration(appCfg.FetchTimeout) * time.Second,
		YouTubeAPIKey: appCfg.YouTubeAPIKey,
		MaxItems:      appCfg.MaxItemsPerSource,
	})
	normalizer := feed.NewNormalizer(appCfg.MaxItemsPerSource)
	deduplicator := dedup.New(dedup.Options{
		SimilarityThreshold: appCfg.SimilarityThreshold,
		TitleTruncateLength: appCfg.TitleTruncateLength,
	})

	agg := aggregator.New(fetcher, normalizer, deduplicator, store, aggregator.Options{
		MaxItemsTotal: appCfg.MaxItemsTotal,
	})

	// Background refresh keeps the cache warm.
	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	feedScheduler := scheduler.NewScheduler(agg, registry,
		time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	feedScheduler.Start()
	defer feedScheduler.Stop()

	// HTTP server
	handler := api.NewHandler(registry, agg, store, newsletter.NewLogSubscriber())
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Shutdown complete")
}
