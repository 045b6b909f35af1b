package service

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nellermoe/storybridge-backend/internal/domain"
)

const defaultSeedWorkers = 4

// SeedConnection describes one user-to-user edge to create during seeding.
type SeedConnection struct {
	FromID string
	ToID   string
	Kind   domain.ConnectionKind
}

// BulkSeeder loads a prepared dataset into the store. Users load
// concurrently; connections and stories follow in phases so their endpoints
// already exist. Individual record failures are logged and skipped; only a
// cancelled context aborts the run.
type BulkSeeder struct {
	repo    Repository
	logger  *zap.Logger
	workers int
	skipped atomic.Int64
}

// NewBulkSeeder wires a BulkSeeder. A non-positive worker count falls back
// to the default.
func NewBulkSeeder(repo Repository, logger *zap.Logger, workers int) *BulkSeeder {
	if workers <= 0 {
		workers = defaultSeedWorkers
	}
	return &BulkSeeder{repo: repo, logger: logger, workers: workers}
}

// Seed ingests users, then connections, then stories.
func (b *BulkSeeder) Seed(ctx context.Context, users []domain.User, connections []SeedConnection, stories []domain.Story) error {
	start := time.Now()
	b.skipped.Store(0)

	if err := b.runPhase(ctx, len(users), func(i int) error {
		return b.repo.CreateUser(ctx, users[i])
	}, "user"); err != nil {
		return err
	}

	if err := b.runPhase(ctx, len(connections), func(i int) error {
		conn := connections[i]
		return b.repo.CreateConnection(ctx, conn.FromID, conn.ToID, conn.Kind, time.Now().UTC())
	}, "connection"); err != nil {
		return err
	}

	if err := b.runPhase(ctx, len(stories), func(i int) error {
		return b.repo.CreateStory(ctx, stories[i])
	}, "story"); err != nil {
		return err
	}

	b.logger.Info("seed complete",
		zap.Int("users", len(users)),
		zap.Int("connections", len(connections)),
		zap.Int("stories", len(stories)),
		zap.Int64("skipped", b.skipped.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Skipped reports how many records failed and were skipped during the last
// Seed run.
func (b *BulkSeeder) Skipped() int64 {
	return b.skipped.Load()
}

func (b *BulkSeeder) runPhase(ctx context.Context, count int, create func(i int) error, kind string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := create(i); err != nil {
				b.skipped.Add(1)
				b.logger.Warn("seed record skipped",
					zap.String("kind", kind),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	return g.Wait()
}
