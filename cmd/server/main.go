package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nellermoe/storybridge-backend/internal/config"
	"github.com/nellermoe/storybridge-backend/internal/graph"
	"github.com/nellermoe/storybridge-backend/internal/logging"
	"github.com/nellermoe/storybridge-backend/internal/repository"
	"github.com/nellermoe/storybridge-backend/internal/server"
	"github.com/nellermoe/storybridge-backend/internal/service"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := graph.NewNeo4jClient(ctx, cfg.Graph)
	if err != nil {
		logger.Fatal("connect to graph store", zap.Error(err))
	}
	defer client.Close(context.Background()) //nolint:errcheck

	repo := repository.New(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("ensure graph schema", zap.Error(err))
	}

	paths := repository.NewPathEngine(client)
	stories := service.NewStoryService(repo, paths, logger)
	network := service.NewNetworkService(repo, paths, logger)

	handler := server.NewHandler(stories, network, client, logger)
	router := server.NewRouter(handler, logger)
	srv := server.New(cfg.HTTPAddr, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown incomplete", zap.Error(err))
		}
	}
}
