package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nellermoe/storybridge-backend/internal/domain"
	"github.com/nellermoe/storybridge-backend/internal/service"
	"github.com/nellermoe/storybridge-backend/internal/viz"
)

const defaultConnectionDepth = 2

// StoryAPI is the story use-case surface the handlers call.
type StoryAPI interface {
	ListStories(ctx context.Context, skip, limit int) ([]domain.Story, error)
	GetStory(ctx context.Context, id string) (*domain.StoryWithShares, error)
	CreateStory(ctx context.Context, input service.CreateStoryInput) (*domain.Story, error)
	RecordShare(ctx context.Context, input service.ShareStoryInput) (*domain.ShareResult, error)
}

// NetworkAPI is the graph exploration surface the handlers call.
type NetworkAPI interface {
	ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error)
	GetNetwork(ctx context.Context, limit int) (viz.Graph, error)
	FindPath(ctx context.Context, sourceToken, targetToken string) (viz.Graph, int, error)
	GetUserConnections(ctx context.Context, name string, depth int) (viz.Graph, error)
}

// ConnectivityProbe reports whether the graph store is reachable.
type ConnectivityProbe interface {
	VerifyConnectivity(ctx context.Context) error
}

// Handler translates HTTP requests into service calls and service errors
// into status codes.
type Handler struct {
	stories StoryAPI
	network NetworkAPI
	probe   ConnectivityProbe
	logger  *zap.Logger
}

// NewHandler wires a Handler.
func NewHandler(stories StoryAPI, network NetworkAPI, probe ConnectivityProbe, logger *zap.Logger) *Handler {
	return &Handler{stories: stories, network: network, probe: probe, logger: logger}
}

type userResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Bio         string `json:"bio,omitempty"`
	Affiliation string `json:"affiliation,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Gender      string `json:"gender,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	Active      bool   `json:"active"`
}

type userSummaryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type storyResponse struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Content   string              `json:"content"`
	Author    userSummaryResponse `json:"author"`
	CreatedAt string              `json:"createdAt"`
}

type shareEventResponse struct {
	Sharer   userSummaryResponse `json:"sharer"`
	SharedAt string              `json:"sharedAt"`
}

type storyDetailResponse struct {
	storyResponse
	Shares []shareEventResponse `json:"shares"`
}

type createStoryRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}

type shareStoryRequest struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

type shareResultResponse struct {
	StoryID       string `json:"storyId"`
	SenderID      string `json:"senderId"`
	ReceiverID    string `json:"receiverId"`
	SharedAt      string `json:"sharedAt"`
	PathReduction int    `json:"pathReduction"`
	RewardPoints  int    `json:"rewardPoints"`
}

type pathResponse struct {
	Nodes  []viz.Node `json:"nodes"`
	Links  []viz.Link `json:"links"`
	Length int        `json:"length"`
}

// Health reports liveness plus graph store reachability.
func (h *Handler) Health(c *gin.Context) {
	if err := h.probe.VerifyConnectivity(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"graph":  "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"graph":  "connected",
	})
}

// ListUsers handles GET /api/users.
func (h *Handler) ListUsers(c *gin.Context) {
	skip := parseIntQuery(c, "skip", 0)
	limit := parseIntQuery(c, "limit", 0)

	users, err := h.network.ListUsers(c.Request.Context(), skip, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, user := range users {
		out = append(out, toUserResponse(user))
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

// ListStories handles GET /api/stories.
func (h *Handler) ListStories(c *gin.Context) {
	skip := parseIntQuery(c, "skip", 0)
	limit := parseIntQuery(c, "limit", 0)

	stories, err := h.stories.ListStories(c.Request.Context(), skip, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	out := make([]storyResponse, 0, len(stories))
	for _, story := range stories {
		out = append(out, toStoryResponse(story))
	}
	c.JSON(http.StatusOK, gin.H{"stories": out})
}

// GetStory handles GET /api/stories/:id.
func (h *Handler) GetStory(c *gin.Context) {
	story, err := h.stories.GetStory(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	detail := storyDetailResponse{
		storyResponse: toStoryResponse(story.Story),
		Shares:        make([]shareEventResponse, 0, len(story.Shares)),
	}
	for _, share := range story.Shares {
		detail.Shares = append(detail.Shares, shareEventResponse{
			Sharer: userSummaryResponse{
				ID:   share.Sharer.ID,
				Name: share.Sharer.Name,
			},
			SharedAt: share.SharedAt.Format(time.RFC3339Nano),
		})
	}
	c.JSON(http.StatusOK, detail)
}

// CreateStory handles POST /api/stories.
func (h *Handler) CreateStory(c *gin.Context) {
	var req createStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	story, err := h.stories.CreateStory(c.Request.Context(), service.CreateStoryInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toStoryResponse(*story))
}

// RecordShare handles POST /api/stories/:id/share.
func (h *Handler) RecordShare(c *gin.Context) {
	var req shareStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.stories.RecordShare(c.Request.Context(), service.ShareStoryInput{
		StoryID:    c.Param("id"),
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, shareResultResponse{
		StoryID:       result.StoryID,
		SenderID:      result.SenderID,
		ReceiverID:    result.ReceiverID,
		SharedAt:      result.SharedAt.Format(time.RFC3339Nano),
		PathReduction: result.PathReduction,
		RewardPoints:  result.RewardPoints,
	})
}

// GetNetwork handles GET /api/network.
func (h *Handler) GetNetwork(c *gin.Context) {
	limit := parseIntQuery(c, "limit", 0)

	graph, err := h.network.GetNetwork(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

// FindPath handles GET /api/path.
func (h *Handler) FindPath(c *gin.Context) {
	graph, length, err := h.network.FindPath(c.Request.Context(), c.Query("source"), c.Query("target"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, pathResponse{
		Nodes:  graph.Nodes,
		Links:  graph.Links,
		Length: length,
	})
}

// GetUserConnections handles GET /api/users/:name/connections.
func (h *Handler) GetUserConnections(c *gin.Context) {
	depth := parseIntQuery(c, "depth", defaultConnectionDepth)

	graph, err := h.network.GetUserConnections(c.Request.Context(), c.Param("name"), depth)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toUserResponse(user domain.User) userResponse {
	out := userResponse{
		ID:          user.ID,
		Name:        user.Name,
		Bio:         user.Bio,
		Affiliation: user.Affiliation,
		Nationality: user.Nationality,
		Gender:      user.Gender,
		Active:      user.Active,
	}
	if !user.CreatedAt.IsZero() {
		out.CreatedAt = user.CreatedAt.Format(time.RFC3339Nano)
	}
	return out
}

func toStoryResponse(story domain.Story) storyResponse {
	return storyResponse{
		ID:      story.ID,
		Title:   story.Title,
		Content: story.Content,
		Author: userSummaryResponse{
			ID:   story.Author.ID,
			Name: story.Author.Name,
		},
		CreatedAt: story.CreatedAt.Format(time.RFC3339Nano),
	}
}

// parseIntQuery reads an integer query parameter. Absent, non-numeric, or
// negative values coerce to the fallback.
func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
