package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nellermoe/storybridge-backend/internal/domain"
)

func newStoryService(repo Repository, paths PathFinder, now time.Time) *StoryService {
	return NewStoryService(repo, paths, zap.NewNop(), WithClock(func() time.Time { return now }))
}

func TestStoryService_CreateStory(t *testing.T) {
	repo := newRepoStub()
	repo.addUser(domain.User{ID: "USR-1", Name: "Jane Doe"})
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newStoryService(repo, &pathsStub{}, now)

	story, err := svc.CreateStory(context.Background(), CreateStoryInput{
		Title:    "  What the Harbor Keeps  ",
		Content:  "A short story.",
		AuthorID: "USR-1",
	})
	require.NoError(t, err)
	require.NotNil(t, story)

	assert.NotEmpty(t, story.ID, "a fresh identifier is assigned")
	assert.Equal(t, "What the Harbor Keeps", story.Title, "title is trimmed")
	assert.Equal(t, "Jane Doe", story.Author.Name, "author summary is resolved")
	assert.Equal(t, now, story.CreatedAt)

	require.Len(t, repo.createdStories, 1)
	assert.Equal(t, story.ID, repo.createdStories[0].ID)
}

func TestStoryService_CreateStory_Validation(t *testing.T) {
	svc := newStoryService(newRepoStub(), &pathsStub{}, time.Now())
	ctx := context.Background()

	_, err := svc.CreateStory(ctx, CreateStoryInput{Title: "   ", Content: "x", AuthorID: "USR-1"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateStory(ctx, CreateStoryInput{Title: "T", Content: "", AuthorID: "USR-1"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.CreateStory(ctx, CreateStoryInput{Title: "T", Content: "x"})
	assert.True(t, domain.IsValidation(err))
}

func TestStoryService_CreateStory_AuthorMissing(t *testing.T) {
	repo := newRepoStub()
	svc := newStoryService(repo, &pathsStub{}, time.Now())

	_, err := svc.CreateStory(context.Background(), CreateStoryInput{
		Title:    "T",
		Content:  "x",
		AuthorID: "USR-MISSING",
	})
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, repo.createdStories, "nothing is written when the author is missing")
}

func TestStoryService_GetStory(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := newRepoStub()
	repo.getStoryWithShare = &domain.StoryWithShares{
		Story: domain.Story{
			ID:     "STY-1",
			Title:  "What the Harbor Keeps",
			Author: domain.UserSummary{ID: "USR-1", Name: "Jane Doe"},
		},
		Shares: []domain.ShareEvent{
			{Sharer: domain.UserSummary{ID: "USR-2", Name: "Oskar Petrov"}, SharedAt: now},
		},
	}
	svc := newStoryService(repo, &pathsStub{}, now)

	story, err := svc.GetStory(context.Background(), "STY-1")
	require.NoError(t, err)
	assert.Equal(t, "STY-1", story.ID)
	require.Len(t, story.Shares, 1)
	assert.Equal(t, "USR-2", story.Shares[0].Sharer.ID)
}

func TestStoryService_GetStory_NotFound(t *testing.T) {
	svc := newStoryService(newRepoStub(), &pathsStub{}, time.Now())

	_, err := svc.GetStory(context.Background(), "STY-MISSING")
	assert.True(t, domain.IsNotFound(err))
}

func TestStoryService_RecordShare_RewardsPathReduction(t *testing.T) {
	repo := newRepoStub()
	repo.addUser(domain.User{ID: "USR-AUTHOR", Name: "Jane Doe"})
	repo.addUser(domain.User{ID: "USR-SENDER", Name: "Oskar Petrov"})
	repo.addUser(domain.User{ID: "USR-RECEIVER", Name: "Elif Sato"})
	repo.addStory(domain.Story{
		ID:     "STY-1",
		Title:  "What the Harbor Keeps",
		Author: domain.UserSummary{ID: "USR-AUTHOR", Name: "Jane Doe"},
	})

	paths := &pathsStub{}
	paths.pushShortest(foundPath(3), nil) // baseline, this story's edges excluded
	paths.pushShortest(foundPath(1), nil) // after the new edges

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc := newStoryService(repo, paths, now)

	result, err := svc.RecordShare(context.Background(), ShareStoryInput{
		StoryID:    "STY-1",
		SenderID:   "USR-SENDER",
		ReceiverID: "USR-RECEIVER",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.PathReduction)
	assert.Equal(t, 20, result.RewardPoints)
	assert.Equal(t, now, result.SharedAt)

	require.Len(t, paths.shortestCalls, 2)
	before, after := paths.shortestCalls[0], paths.shortestCalls[1]
	assert.Equal(t, "USR-AUTHOR", before.SourceID, "paths are measured from the author")
	assert.Equal(t, "USR-RECEIVER", before.TargetID)
	assert.Equal(t, "STY-1", before.ExcludeTag, "baseline excludes this story's edges")
	assert.Equal(t, "", after.ExcludeTag, "the after measurement sees the new edges")

	require.Len(t, repo.shareCalls, 1)
	assert.Equal(t, "STY-1", repo.shareCalls[0].StoryID)
	assert.Equal(t, "USR-SENDER", repo.shareCalls[0].SenderID)
	assert.Equal(t, "USR-RECEIVER", repo.shareCalls[0].ReceiverID)
}

func TestStoryService_RecordShare_NoBaselinePathEarnsNothing(t *testing.T) {
	repo := newRepoStub()
	repo.addUser(domain.User{ID: "USR-AUTHOR", Name: "Jane Doe"})
	repo.addUser(domain.User{ID: "USR-SENDER", Name: "Oskar Petrov"})
	repo.addUser(domain.User{ID: "USR-RECEIVER", Name: "Elif Sato"})
	repo.addStory(domain.Story{ID: "STY-1", Author: domain.UserSummary{ID: "USR-AUTHOR"}})

	paths := &pathsStub{}
	paths.pushShortest(domain.Path{Found: false}, nil)
	paths.pushShortest(foundPath(1), nil)

	svc := newStoryService(repo, paths, time.Now())

	result, err := svc.RecordShare(context.Background(), ShareStoryInput{
		StoryID:    "STY-1",
		SenderID:   "USR-SENDER",
		ReceiverID: "USR-RECEIVER",
	})
	require.NoError(t, err)

	assert.Equal(t, 0, result.PathReduction)
	assert.Equal(t, 0, result.RewardPoints)
	require.Len(t, repo.shareCalls, 1, "the share itself still persists")
}

func TestStoryService_RecordShare_Validation(t *testing.T) {
	svc := newStoryService(newRepoStub(), &pathsStub{}, time.Now())
	ctx := context.Background()

	_, err := svc.RecordShare(ctx, ShareStoryInput{StoryID: "STY-1", SenderID: "USR-1", ReceiverID: "USR-1"})
	assert.True(t, domain.IsValidation(err), "self share is rejected")

	_, err = svc.RecordShare(ctx, ShareStoryInput{SenderID: "USR-1", ReceiverID: "USR-2"})
	assert.True(t, domain.IsValidation(err))
}

func TestStoryService_RecordShare_FailsFastBeforeWrites(t *testing.T) {
	repo := newRepoStub()
	repo.addUser(domain.User{ID: "USR-SENDER"})
	svc := newStoryService(repo, &pathsStub{}, time.Now())

	_, err := svc.RecordShare(context.Background(), ShareStoryInput{
		StoryID:    "STY-MISSING",
		SenderID:   "USR-SENDER",
		ReceiverID: "USR-RECEIVER",
	})
	assert.True(t, domain.IsNotFound(err))
	assert.Empty(t, repo.shareCalls, "no edges are written when validation fails")
}

func TestStoryService_RecordShare_EdgeWriteFailure(t *testing.T) {
	repo := newRepoStub()
	repo.addUser(domain.User{ID: "USR-AUTHOR"})
	repo.addUser(domain.User{ID: "USR-SENDER"})
	repo.addUser(domain.User{ID: "USR-RECEIVER"})
	repo.addStory(domain.Story{ID: "STY-1", Author: domain.UserSummary{ID: "USR-AUTHOR"}})
	repo.recordShareErr = domain.StoreError{Op: "record share", Err: errors.New("connection reset")}

	paths := &pathsStub{}
	paths.pushShortest(foundPath(3), nil)

	svc := newStoryService(repo, paths, time.Now())

	_, err := svc.RecordShare(context.Background(), ShareStoryInput{
		StoryID:    "STY-1",
		SenderID:   "USR-SENDER",
		ReceiverID: "USR-RECEIVER",
	})
	require.Error(t, err)
	assert.Len(t, paths.shortestCalls, 1, "the after measurement never runs when the write fails")
}

func TestStoryService_RecordShare_NoRollbackOnAfterMeasurement(t *testing.T) {
	repo := newRepoStub()
	repo.addUser(domain.User{ID: "USR-AUTHOR"})
	repo.addUser(domain.User{ID: "USR-SENDER"})
	repo.addUser(domain.User{ID: "USR-RECEIVER"})
	repo.addStory(domain.Story{ID: "STY-1", Author: domain.UserSummary{ID: "USR-AUTHOR"}})

	boom := domain.StoreError{Op: "shortest path", Err: errors.New("connection reset")}
	paths := &pathsStub{}
	paths.pushShortest(foundPath(3), nil)
	paths.pushShortest(domain.Path{}, boom)

	svc := newStoryService(repo, paths, time.Now())

	_, err := svc.RecordShare(context.Background(), ShareStoryInput{
		StoryID:    "STY-1",
		SenderID:   "USR-SENDER",
		ReceiverID: "USR-RECEIVER",
	})
	require.Error(t, err)
	require.Len(t, repo.shareCalls, 1, "the persisted share edges stand")
}

func TestShareScorer_Score(t *testing.T) {
	scorer := ShareScorer{}

	cases := []struct {
		name      string
		before    domain.Path
		after     domain.Path
		reduction int
		points    int
	}{
		{"shorter path", foundPath(3), foundPath(1), 2, 20},
		{"unchanged path", foundPath(2), foundPath(2), 0, 0},
		{"longer path earns nothing", foundPath(1), foundPath(3), -2, 0},
		{"no baseline", domain.Path{Found: false}, foundPath(1), 0, 0},
		{"no after path", foundPath(2), domain.Path{Found: false}, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reduction, points := scorer.Score(tc.before, tc.after)
			assert.Equal(t, tc.reduction, reduction)
			assert.Equal(t, tc.points, points)
		})
	}
}
