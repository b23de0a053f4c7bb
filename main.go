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

	"channel-portfolio/domain/repository"
	"channel-portfolio/infrastructure/cache"
	youtubeclient "channel-portfolio/infrastructure/clients/youtube"
	"channel-portfolio/infrastructure/configuration"
	"channel-portfolio/infrastructure/logger"
	"channel-portfolio/infrastructure/persistence"
	httpHandler "channel-portfolio/interfaces/http"
	"channel-portfolio/server"
	"channel-portfolio/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	store := initiateSnapshotStore(ctx)

	catalogConfig := configuration.GetCatalogConfig()
	if catalogConfig.APIKey == "" {
		logger.GetLogger().Warn("Upstream API key not configured; refreshes will fail and the stored snapshot will be served")
	}

	upstream, err := youtubeclient.NewCatalogClient(ctx, &youtubeclient.Config{
		APIKey:         catalogConfig.APIKey,
		RequestTimeout: configuration.C.Catalog.RequestTimeout(),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Upstream client initialization failed")
		os.Exit(1)
	}

	// The Redis lock is optional hardening; without it refreshes are still
	// coalesced within the process.
	var refreshLock repository.IRefreshLock
	redisClient := cache.NewRedisClient()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - refreshes will not be serialized across processes")
	} else {
		refreshLock = cache.NewRefreshLock(redisClient)
		logger.GetLogger().Info("Redis refresh lock initialized")
	}

	catalogUseCase := usecase.NewCatalogUseCase(upstream, store, refreshLock, usecase.Options{
		ChannelID:          catalogConfig.ChannelID,
		PodcastPlaylistID:  catalogConfig.PodcastPlaylistID,
		StalenessThreshold: configuration.C.Catalog.StalenessThreshold(),
		ShortsCutoff:       configuration.C.Catalog.ShortsCutoff(),
	})
	catalogHandler := httpHandler.NewCatalogHandler(catalogUseCase)

	router := server.InitiateRouter(catalogHandler)

	port := app.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateSnapshotStore wires the snapshot store selected by
// configuration. A backend that cannot be reached degrades to the file
// store so the process always comes up.
func initiateSnapshotStore(ctx context.Context) repository.ISnapshotStore {
	log := logger.GetLogger()

	switch configuration.C.Data.Source {
	case "postgres":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			log.WithField("error", err).Warn("PostgreSQL not available - falling back to file store")
			break
		}
		if err := persistence.EnsureSnapshotSchema(db); err != nil {
			log.WithField("error", err).Warn("Snapshot schema setup failed - falling back to file store")
			break
		}
		log.Info("PostgreSQL snapshot store initialized")
		return persistence.NewSnapshotRepository(db)
	case "mongo":
		client, err := persistence.NewMongoDb()
		if err != nil {
			log.WithField("error", err).Warn("MongoDB not available - falling back to file store")
			break
		}
		if err := client.Ping(ctx, nil); err != nil {
			log.WithField("error", err).Warn("MongoDB ping failed - falling back to file store")
			break
		}
		log.Info("MongoDB snapshot store initialized")
		return persistence.NewMongoSnapshotRepository(client, configuration.C.Database.Mongo.Name)
	}

	log.WithField("path", configuration.C.Data.File).Info("File snapshot store initialized")
	return persistence.NewFileSnapshotRepository(configuration.C.Data.File)
}
