package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/nellermoe/storybridge-backend/internal/domain"
	"github.com/nellermoe/storybridge-backend/internal/viz"
)

const defaultConnectionLimit = 100

// NetworkService serves the graph exploration use cases: network overview,
// pathfinding between two users, and a user's neighborhood.
type NetworkService struct {
	repo   Repository
	paths  PathFinder
	logger *zap.Logger
}

// NewNetworkService wires a NetworkService with its dependencies.
func NewNetworkService(repo Repository, paths PathFinder, logger *zap.Logger) *NetworkService {
	return &NetworkService{repo: repo, paths: paths, logger: logger}
}

// ListUsers returns a page of users ordered by name.
func (n *NetworkService) ListUsers(ctx context.Context, skip, limit int) ([]domain.User, error) {
	return n.repo.ListUsers(ctx, skip, limit)
}

// GetNetwork returns a bounded slice of the social graph as a visualization
// document. Each unordered user pair appears as exactly one link, whatever
// the number or type of edges between them; the first edge encountered
// represents the pair.
func (n *NetworkService) GetNetwork(ctx context.Context, limit int) (viz.Graph, error) {
	slice, err := n.repo.GetNetworkSlice(ctx, limit)
	if err != nil {
		return viz.Graph{}, err
	}

	seen := make(map[string]struct{}, len(slice.Edges))
	edges := make([]domain.RawEdge, 0, len(slice.Edges))
	for _, edge := range slice.Edges {
		key := pairKey(edge.Source, edge.Target)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		edges = append(edges, edge)
	}

	return viz.FormatCollection(slice.Nodes, edges), nil
}

// FindPath resolves both tokens to users and returns the shortest path
// between them as a visualization document plus its hop count. Tokens are
// tried as identifiers first, then as exact names. Disconnected users yield
// an empty document and a length of -1.
func (n *NetworkService) FindPath(ctx context.Context, sourceToken, targetToken string) (viz.Graph, int, error) {
	if sourceToken == "" || targetToken == "" {
		return viz.Graph{}, -1, domain.NewValidationError("source and target are required")
	}

	source, err := n.resolveUser(ctx, sourceToken)
	if err != nil {
		return viz.Graph{}, -1, err
	}
	target, err := n.resolveUser(ctx, targetToken)
	if err != nil {
		return viz.Graph{}, -1, err
	}

	path, err := n.paths.ShortestPath(ctx, source.ID, target.ID, "")
	if err != nil {
		return viz.Graph{}, -1, err
	}
	if !path.Found {
		return viz.FormatPaths(nil), -1, nil
	}

	n.logger.Debug("path resolved",
		zap.String("sourceId", source.ID),
		zap.String("targetId", target.ID),
		zap.Int("hops", path.Hops),
	)
	return viz.FormatPath(path), path.Hops, nil
}

// GetUserConnections returns the neighborhood of the named user within the
// given hop depth as a visualization document. A non-positive depth yields
// an empty document.
func (n *NetworkService) GetUserConnections(ctx context.Context, name string, depth int) (viz.Graph, error) {
	if name == "" {
		return viz.Graph{}, domain.NewValidationError("user name is required")
	}

	user, err := n.repo.FindUserByName(ctx, name)
	if err != nil {
		return viz.Graph{}, err
	}
	if user == nil {
		return viz.Graph{}, domain.NotFoundError{Entity: "user", Key: name}
	}

	paths, err := n.paths.NeighborsWithinDepth(ctx, user.ID, depth, defaultConnectionLimit)
	if err != nil {
		return viz.Graph{}, err
	}

	// The user appears even when isolated; first-wins dedup keeps this
	// record over the copies inside the paths.
	nodes := []domain.RawNode{{
		ID:     user.ID,
		Labels: []string{"User"},
		Props: map[string]any{
			"name":        user.Name,
			"bio":         user.Bio,
			"affiliation": user.Affiliation,
			"nationality": user.Nationality,
			"gender":      user.Gender,
		},
	}}

	// The same physical edge shows up in every path that crosses it; keep
	// it once by edge id.
	seen := make(map[string]struct{})
	var edges []domain.RawEdge
	for _, path := range paths {
		for _, node := range path.Nodes {
			nodes = append(nodes, domain.RawNode{ID: node.ID, Labels: node.Labels, Props: node.Props})
		}
		for _, edge := range path.Edges {
			if edge.ID != "" {
				if _, dup := seen[edge.ID]; dup {
					continue
				}
				seen[edge.ID] = struct{}{}
			}
			edges = append(edges, domain.RawEdge{
				ID:     edge.ID,
				Type:   edge.Type,
				Source: edge.Source,
				Target: edge.Target,
				Props:  edge.Props,
			})
		}
	}

	return viz.FormatCollection(nodes, edges), nil
}

// resolveUser accepts either a user identifier or an exact name and fails
// with a NotFoundError when neither matches.
func (n *NetworkService) resolveUser(ctx context.Context, token string) (*domain.User, error) {
	user, err := n.repo.FindUserByID(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = n.repo.FindUserByName(ctx, token)
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, domain.NotFoundError{Entity: "user", Key: token}
	}
	return user, nil
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "->" + b
}
