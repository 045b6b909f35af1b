// Command seed wipes the graph and loads a generated demo dataset.
package main

import (
	"context"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/nellermoe/storybridge-backend/internal/config"
	"github.com/nellermoe/storybridge-backend/internal/generator"
	"github.com/nellermoe/storybridge-backend/internal/graph"
	"github.com/nellermoe/storybridge-backend/internal/logging"
	"github.com/nellermoe/storybridge-backend/internal/repository"
	"github.com/nellermoe/storybridge-backend/internal/service"
)

func main() {
	var (
		seed    = flag.Int64("seed", 42, "random seed for the generated dataset")
		users   = flag.Int("users", 20, "number of users to generate")
		stories = flag.Int("stories", 8, "number of stories to generate")
		wipe    = flag.Bool("wipe", true, "clear the graph before seeding")
	)
	flag.Parse()

	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	client, err := graph.NewNeo4jClient(ctx, cfg.Graph)
	if err != nil {
		logger.Fatal("connect to graph store", zap.Error(err))
	}
	defer client.Close(ctx) //nolint:errcheck

	repo := repository.New(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Fatal("ensure graph schema", zap.Error(err))
	}

	if *wipe {
		logger.Info("clearing existing graph")
		if err := repo.ClearAll(ctx); err != nil {
			logger.Fatal("clear graph", zap.Error(err))
		}
	}

	dataset := generator.Generate(*seed, *users, *stories)
	seeder := service.NewBulkSeeder(repo, logger, cfg.SeedWorkers)
	if err := seeder.Seed(ctx, dataset.Users, dataset.Connections, dataset.Stories); err != nil {
		logger.Fatal("seed dataset", zap.Error(err))
	}
}
