// Package service implements the application use cases on top of the
// graph repository and path engine.
package service

import (
	"context"
	"time"

	"github.com/nellermoe/storybridge-backend/internal/domain"
)

// Repository is the persistence contract the services depend on. The
// concrete implementation lives in the repository package; tests substitute
// scripted fakes.
type Repository interface {
	CreateUser(ctx context.Context, user domain.User) error
	CreateStory(ctx context.Context, story domain.Story) error
	CreateConnection(ctx context.Context, fromID, toID string, kind domain.ConnectionKind, at time.Time) error
	RecordShareEdges(ctx context.Context, storyID, senderID, receiverID string, at time.Time) error
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	ListStories(ctx context.Context, skip, limit int) ([]domain.Story, error)
	FindUserByName(ctx context.Context, name string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	FindStoryByID(ctx context.Context, id string) (*domain.Story, error)
	GetStoryWithShares(ctx context.Context, id string) (*domain.StoryWithShares, error)
	GetNetworkSlice(ctx context.Context, limit int) (domain.NetworkSlice, error)
	ClearAll(ctx context.Context) error
}

// PathFinder answers reachability queries between users by identifier.
type PathFinder interface {
	ShortestPath(ctx context.Context, sourceID, targetID, excludeStoryTag string) (domain.Path, error)
	NeighborsWithinDepth(ctx context.Context, nodeID string, depth, limit int) ([]domain.Path, error)
}

// CreateStoryInput carries the caller-supplied fields for a new story. The
// identifier and timestamp are assigned by the service.
type CreateStoryInput struct {
	Title    string
	Content  string
	AuthorID string
}

// ShareStoryInput identifies a share: which story, who sends, who receives.
type ShareStoryInput struct {
	StoryID    string
	SenderID   string
	ReceiverID string
}
