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

	"github.com/sirupsen/logrus"

	"github.com/xiaot623/gogo/quantumqa/internal/adapter/arxiv"
	"github.com/xiaot623/gogo/quantumqa/internal/adapter/llm"
	"github.com/xiaot623/gogo/quantumqa/internal/adapter/serp"
	"github.com/xiaot623/gogo/quantumqa/internal/cache"
	"github.com/xiaot623/gogo/quantumqa/internal/config"
	"github.com/xiaot623/gogo/quantumqa/internal/logger"
	"github.com/xiaot623/gogo/quantumqa/internal/policy"
	"github.com/xiaot623/gogo/quantumqa/internal/repository"
	"github.com/xiaot623/gogo/quantumqa/internal/service"
	transporthttp "github.com/xiaot623/gogo/quantumqa/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.WithFields(logrus.Fields{
		"http_port": cfg.HTTPPort,
		"database":  cfg.DatabaseURL,
		"mode":      cfg.Mode,
	}).Info("Starting research assistant")

	// Initialize store
	store, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize store")
	}
	defer store.Close()

	// Initialize adapters
	papers := arxiv.NewClient(cfg.ArxivURL, cfg.ArxivTimeout, log)
	web := serp.NewClient(cfg.SerpURL, cfg.SerpAPIKey, cfg.SerpTimeout, log)
	gen := llm.NewGenerator(cfg.Mode, cfg.HFURL, cfg.HFAPIKey, cfg.HFModel, cfg.LLMTimeout, log)
	if !web.Configured() {
		log.Warn("SERPAPI_API_KEY not set, web search disabled")
	}
	if !gen.Available() {
		log.Warn("Generation backend unavailable, answers will be extractive")
	}

	// Initialize route policy
	routes, err := policy.NewEngineFromFile(context.Background(), cfg.PolicyFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize route policy")
	}

	// Initialize retrieval cache
	var retrievalCache cache.Cache = cache.NewMemoryCache()
	if cfg.RedisURL != "" {
		rdb, err := cache.OpenRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, using in-memory cache")
		} else {
			defer rdb.Close()
			retrievalCache = cache.NewRedisCache(rdb)
		}
	}

	svc := service.New(cfg, store, papers, web, gen, routes, retrievalCache, log)
	e := transporthttp.NewServer(svc, cfg.JWTSecret, log)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		log.Infof("HTTP server listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Failed to shutdown server gracefully")
	}

	log.Info("Research assistant stopped")
}
