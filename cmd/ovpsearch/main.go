package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ovp-platform/ovpsearch/internal/config"
	"github.com/ovp-platform/ovpsearch/internal/db"
	"github.com/ovp-platform/ovpsearch/internal/db/memory"
	dbRedis "github.com/ovp-platform/ovpsearch/internal/db/redis"
	"github.com/ovp-platform/ovpsearch/internal/db/sqlite"
	"github.com/ovp-platform/ovpsearch/internal/domain"
	"github.com/ovp-platform/ovpsearch/internal/events"
	logpkg "github.com/ovp-platform/ovpsearch/internal/logger"
	"github.com/ovp-platform/ovpsearch/internal/metrics"
	"github.com/ovp-platform/ovpsearch/internal/repository/address"
	"github.com/ovp-platform/ovpsearch/internal/repository/cache"
	"github.com/ovp-platform/ovpsearch/internal/repository/document"
	"github.com/ovp-platform/ovpsearch/internal/repository/organization"
	"github.com/ovp-platform/ovpsearch/internal/repository/project"
	searchrepo "github.com/ovp-platform/ovpsearch/internal/repository/search"
	"github.com/ovp-platform/ovpsearch/internal/repository/taxonomy"
	"github.com/ovp-platform/ovpsearch/internal/repository/user"
	chiTransport "github.com/ovp-platform/ovpsearch/internal/transport/chi"
	cataloguc "github.com/ovp-platform/ovpsearch/internal/usecase/catalog"
	healthuc "github.com/ovp-platform/ovpsearch/internal/usecase/health"
	"github.com/ovp-platform/ovpsearch/internal/usecase/indexer"
	searchuc "github.com/ovp-platform/ovpsearch/internal/usecase/search"
	"github.com/ovp-platform/ovpsearch/internal/version"
)

func main() {
	reindex := flag.Bool("reindex", false, "rebuild the search index from the relational store and exit")
	flag.Parse()

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting ovpsearch",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	filterOut, err := filterOutByKind(cfg.Search.FilterOut)
	if err != nil {
		logger.Fatal("Invalid search.filter_out", zap.Error(err))
	}

	// Create the search index store based on driver
	var store db.Store
	switch cfg.Database.Driver {
	case config.DriverRedis:
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
	case config.DriverMemory:
		store = memory.NewStore()
	default:
		logger.Fatal("Unknown database driver", zap.String("driver", cfg.Database.Driver))
	}
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to search index")

	sqlDB, err := sqlite.Open(ctx, cfg.Relational.DSN)
	if err != nil {
		logger.Fatal("Failed to open relational store", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories publish every change on the bus; the synchronizer keeps the index in step.
	keys := domain.NewKeyspace(cfg.Index.KeyPrefix)
	bus := events.NewBus()
	projects := project.New(sqlDB, bus)
	organizations := organization.New(sqlDB, bus)
	users := user.New(sqlDB, bus)
	matcher := searchrepo.New(store, keys, cfg.Index.MaxResults)
	documents := document.New(store, keys)

	synchronizer := indexer.New(documents, matcher, projects, organizations, users,
		metrics.IndexSyncTotal, logger)
	if _, err := synchronizer.Subscribe(bus); err != nil {
		logger.Fatal("Failed to subscribe index synchronizer", zap.Error(err))
	}

	if *reindex || cfg.Index.RebuildOnStart {
		if _, err := synchronizer.Rebuild(ctx); err != nil {
			logger.Fatal("Index rebuild failed", zap.Error(err))
		}
		if *reindex {
			return
		}
	} else if err := synchronizer.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create search indexes", zap.Error(err))
	}

	// Create use case services
	results := cache.New(store, keys, cfg.Search.CacheTTL(), metrics.CacheTotal, logger)
	searchSvc := searchuc.New(matcher, projects, organizations, users, results, searchuc.Options{
		EnableUserSearch: cfg.Search.EnableUserSearch,
		FilterOut:        filterOut,
	}, metrics.SearchDuration)
	catalogSvc := cataloguc.New(projects, organizations, users, address.New(sqlDB, bus), taxonomy.New(sqlDB, bus),
		synchronizer, documents, logger)
	healthSvc := healthuc.New(store, sqlDB)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, catalogSvc, healthSvc, chiTransport.Options{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		APIKeys:         cfg.Auth.APIKeys,
		UserTokens:      cfg.Auth.UserTokens,
	}, logger)
	if len(cfg.Auth.APIKeys) == 0 {
		logger.Warn("auth.api_keys is empty; the admin API is open")
	}

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// filterOutByKind validates the configured exclusions against the columns
// each repository allows and keys them by kind.
func filterOutByKind(cfg config.FilterOutConfig) (map[domain.Kind]map[string]string, error) {
	out := map[domain.Kind]map[string]string{}
	for _, f := range []struct {
		kind    domain.Kind
		values  map[string]string
		allowed interface{ Validate(map[string]string) error }
	}{
		{domain.KindProject, cfg.Projects, project.Excludable},
		{domain.KindOrganization, cfg.Organizations, organization.Excludable},
		{domain.KindUser, cfg.Users, user.Excludable},
	} {
		if len(f.values) == 0 {
			continue
		}
		if err := f.allowed.Validate(f.values); err != nil {
			return nil, fmt.Errorf("%s: %w", f.kind.Plural(), err)
		}
		out[f.kind] = f.values
	}
	return out, nil
}
