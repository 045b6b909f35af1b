package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nellermoe/storybridge-backend/internal/domain"
)

// StoryService implements the story lifecycle: creation, retrieval, and the
// share-and-reward protocol.
type StoryService struct {
	repo   Repository
	paths  PathFinder
	scorer ShareScorer
	logger *zap.Logger
	now    func() time.Time
}

// StoryOption customizes a StoryService.
type StoryOption func(*StoryService)

// WithClock overrides the service clock, primarily for tests.
func WithClock(now func() time.Time) StoryOption {
	return func(s *StoryService) {
		s.now = now
	}
}

// NewStoryService wires a StoryService with its dependencies.
func NewStoryService(repo Repository, paths PathFinder, logger *zap.Logger, opts ...StoryOption) *StoryService {
	s := &StoryService{
		repo:   repo,
		paths:  paths,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListStories returns a page of stories, newest first.
func (s *StoryService) ListStories(ctx context.Context, skip, limit int) ([]domain.Story, error) {
	return s.repo.ListStories(ctx, skip, limit)
}

// GetStory returns a story with its share history, or a NotFoundError.
func (s *StoryService) GetStory(ctx context.Context, id string) (*domain.StoryWithShares, error) {
	if id == "" {
		return nil, domain.NewValidationError("story id is required")
	}
	story, err := s.repo.GetStoryWithShares(ctx, id)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, domain.NotFoundError{Entity: "story", Key: id}
	}
	return story, nil
}

// CreateStory validates the input, assigns a fresh identifier, and persists
// the story together with its AUTHORED edge.
func (s *StoryService) CreateStory(ctx context.Context, input CreateStoryInput) (*domain.Story, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, domain.NewValidationError("story title is required")
	}
	if content == "" {
		return nil, domain.NewValidationError("story content is required")
	}
	if input.AuthorID == "" {
		return nil, domain.NewValidationError("story author id is required")
	}

	author, err := s.repo.FindUserByID(ctx, input.AuthorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, domain.NotFoundError{Entity: "user", Key: input.AuthorID}
	}

	story := domain.Story{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
		Author: domain.UserSummary{
			ID:   author.ID,
			Name: author.Name,
		},
		CreatedAt: s.now(),
	}

	if err := s.repo.CreateStory(ctx, story); err != nil {
		return nil, err
	}

	s.logger.Info("story created",
		zap.String("storyId", story.ID),
		zap.String("authorId", author.ID),
	)
	return &story, nil
}

// RecordShare runs the share protocol: validate the participants, measure
// the author-to-receiver path with this story's earlier share edges
// excluded, persist the SHARED and SHARED_WITH edges, re-measure the path,
// and grant points for any reduction.
//
// All validation and the baseline measurement happen before the write. The
// write is not rolled back if the follow-up measurement fails; the share
// stands and the error propagates.
func (s *StoryService) RecordShare(ctx context.Context, input ShareStoryInput) (*domain.ShareResult, error) {
	if input.StoryID == "" {
		return nil, domain.NewValidationError("story id is required")
	}
	if input.SenderID == "" || input.ReceiverID == "" {
		return nil, domain.NewValidationError("sender and receiver ids are required")
	}
	if input.SenderID == input.ReceiverID {
		return nil, domain.NewValidationError("sender and receiver must differ")
	}

	story, err := s.repo.FindStoryByID(ctx, input.StoryID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, domain.NotFoundError{Entity: "story", Key: input.StoryID}
	}

	for _, userID := range []string{input.SenderID, input.ReceiverID} {
		user, err := s.repo.FindUserByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, domain.NotFoundError{Entity: "user", Key: userID}
		}
	}

	before, err := s.paths.ShortestPath(ctx, story.Author.ID, input.ReceiverID, story.ID)
	if err != nil {
		return nil, err
	}

	sharedAt := s.now()
	if err := s.repo.RecordShareEdges(ctx, story.ID, input.SenderID, input.ReceiverID, sharedAt); err != nil {
		return nil, err
	}

	after, err := s.paths.ShortestPath(ctx, story.Author.ID, input.ReceiverID, "")
	if err != nil {
		return nil, err
	}

	reduction, points := s.scorer.Score(before, after)

	s.logger.Info("story shared",
		zap.String("storyId", story.ID),
		zap.String("senderId", input.SenderID),
		zap.String("receiverId", input.ReceiverID),
		zap.Int("pathReduction", reduction),
		zap.Int("rewardPoints", points),
	)

	return &domain.ShareResult{
		StoryID:       story.ID,
		SenderID:      input.SenderID,
		ReceiverID:    input.ReceiverID,
		SharedAt:      sharedAt,
		PathReduction: reduction,
		RewardPoints:  points,
	}, nil
}
