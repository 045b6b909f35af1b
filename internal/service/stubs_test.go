package service

import (
	"context"
	"sync"
	"time"

	"github.com/nellermoe/storybridge-backend/internal/domain"
)

// repoStub is a scripted Repository. Unset hooks succeed with zero values.
// Writes are guarded so the concurrent seeder can use it.
type repoStub struct {
	mu sync.Mutex

	users        map[string]domain.User
	usersByName  map[string]domain.User
	stories      map[string]domain.Story
	networkSlice domain.NetworkSlice

	createUserErr  error
	recordShareErr error

	createdUsers      []domain.User
	createdStories    []domain.Story
	createdConns      []SeedConnection
	shareCalls        []shareCall
	getStoryWithShare *domain.StoryWithShares
}

type shareCall struct {
	StoryID    string
	SenderID   string
	ReceiverID string
	At         time.Time
}

func newRepoStub() *repoStub {
	return &repoStub{
		users:       map[string]domain.User{},
		usersByName: map[string]domain.User{},
		stories:     map[string]domain.Story{},
	}
}

func (r *repoStub) addUser(user domain.User) {
	r.users[user.ID] = user
	r.usersByName[user.Name] = user
}

func (r *repoStub) addStory(story domain.Story) {
	r.stories[story.ID] = story
}

func (r *repoStub) CreateUser(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createUserErr != nil {
		return r.createUserErr
	}
	r.createdUsers = append(r.createdUsers, user)
	return nil
}

func (r *repoStub) CreateStory(_ context.Context, story domain.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createdStories = append(r.createdStories, story)
	return nil
}

func (r *repoStub) CreateConnection(_ context.Context, fromID, toID string, kind domain.ConnectionKind, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createdConns = append(r.createdConns, SeedConnection{FromID: fromID, ToID: toID, Kind: kind})
	return nil
}

func (r *repoStub) RecordShareEdges(_ context.Context, storyID, senderID, receiverID string, at time.Time) error {
	if r.recordShareErr != nil {
		return r.recordShareErr
	}
	r.shareCalls = append(r.shareCalls, shareCall{
		StoryID:    storyID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		At:         at,
	})
	return nil
}

func (r *repoStub) ListUsers(context.Context, int, int) ([]domain.User, error) {
	users := make([]domain.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

func (r *repoStub) ListStories(context.Context, int, int) ([]domain.Story, error) {
	stories := make([]domain.Story, 0, len(r.stories))
	for _, story := range r.stories {
		stories = append(stories, story)
	}
	return stories, nil
}

func (r *repoStub) FindUserByName(_ context.Context, name string) (*domain.User, error) {
	if user, ok := r.usersByName[name]; ok {
		return &user, nil
	}
	return nil, nil
}

func (r *repoStub) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (r *repoStub) FindStoryByID(_ context.Context, id string) (*domain.Story, error) {
	if story, ok := r.stories[id]; ok {
		return &story, nil
	}
	return nil, nil
}

func (r *repoStub) GetStoryWithShares(context.Context, string) (*domain.StoryWithShares, error) {
	return r.getStoryWithShare, nil
}

func (r *repoStub) GetNetworkSlice(context.Context, int) (domain.NetworkSlice, error) {
	return r.networkSlice, nil
}

func (r *repoStub) ClearAll(context.Context) error { return nil }

// pathsStub answers ShortestPath from a queue and NeighborsWithinDepth from
// a fixed slice, recording every call.
type pathsStub struct {
	shortestResults []domain.Path
	shortestErrs    []error
	shortestCalls   []shortestCall

	neighborPaths []domain.Path
	neighborErr   error
	neighborCalls []neighborCall
}

type shortestCall struct {
	SourceID   string
	TargetID   string
	ExcludeTag string
}

type neighborCall struct {
	NodeID string
	Depth  int
	Limit  int
}

func (p *pathsStub) pushShortest(path domain.Path, err error) {
	p.shortestResults = append(p.shortestResults, path)
	p.shortestErrs = append(p.shortestErrs, err)
}

func (p *pathsStub) ShortestPath(_ context.Context, sourceID, targetID, excludeStoryTag string) (domain.Path, error) {
	p.shortestCalls = append(p.shortestCalls, shortestCall{
		SourceID:   sourceID,
		TargetID:   targetID,
		ExcludeTag: excludeStoryTag,
	})
	if len(p.shortestResults) == 0 {
		return domain.Path{}, nil
	}
	path, err := p.shortestResults[0], p.shortestErrs[0]
	p.shortestResults = p.shortestResults[1:]
	p.shortestErrs = p.shortestErrs[1:]
	return path, err
}

func (p *pathsStub) NeighborsWithinDepth(_ context.Context, nodeID string, depth, limit int) ([]domain.Path, error) {
	p.neighborCalls = append(p.neighborCalls, neighborCall{NodeID: nodeID, Depth: depth, Limit: limit})
	if p.neighborErr != nil {
		return nil, p.neighborErr
	}
	return p.neighborPaths, nil
}

func foundPath(hops int) domain.Path {
	nodes := make([]domain.PathNode, hops+1)
	for i := range nodes {
		nodes[i] = domain.PathNode{ID: "n" + string(rune('0'+i))}
	}
	return domain.Path{Found: true, Nodes: nodes, Hops: hops}
}
