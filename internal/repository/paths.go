package repository

import (
	"context"
	"fmt"

	"github.com/nellermoe/storybridge-backend/internal/domain"
	"github.com/nellermoe/storybridge-backend/internal/graph"
)

const (
	// maxPathHops bounds shortest-path expansion so a pathological query
	// cannot walk the whole graph.
	maxPathHops = 15

	// maxNeighborDepth bounds the variable-length neighborhood traversal.
	maxNeighborDepth = 10

	defaultNeighborLimit = 50
)

// PathEngine answers reachability questions over the social edges
// (KNOWS and SHARED_WITH, traversed in both directions). It deals in node
// identifiers only and never interprets user or story semantics.
type PathEngine struct {
	client graph.Client
}

// NewPathEngine instantiates a PathEngine backed by the supplied client.
func NewPathEngine(client graph.Client) *PathEngine {
	return &PathEngine{client: client}
}

// ShortestPath finds one shortest path between two users. When
// excludeStoryTag is non-empty, SHARED_WITH edges carrying that story tag
// are barred from the traversal. Disconnected endpoints produce a path
// with Found=false, not an error; identical endpoints short-circuit to a
// zero-hop path without touching the store.
func (p *PathEngine) ShortestPath(ctx context.Context, sourceID, targetID, excludeStoryTag string) (domain.Path, error) {
	if sourceID == "" || targetID == "" {
		return domain.Path{}, domain.NewValidationError("both path endpoints are required")
	}
	if sourceID == targetID {
		return domain.Path{
			Found: true,
			Nodes: []domain.PathNode{{ID: sourceID}},
			Hops:  0,
		}, nil
	}

	query := fmt.Sprintf(shortestPathCypherTemplate, maxPathHops)
	res, err := p.client.ExecuteRead(ctx, query, map[string]any{
		"sourceId":   sourceID,
		"targetId":   targetID,
		"excludeTag": excludeStoryTag,
	})
	if err != nil {
		return domain.Path{}, domain.StoreError{Op: "shortest path", Err: err}
	}
	if len(res.Records) == 0 {
		return domain.Path{Found: false}, nil
	}

	return pathFromRecord(res.Records[0]), nil
}

// NeighborsWithinDepth returns the paths from a user to every distinct user
// reachable within the given number of hops, shortest first. A non-positive
// depth yields an empty result.
func (p *PathEngine) NeighborsWithinDepth(ctx context.Context, nodeID string, depth, limit int) ([]domain.Path, error) {
	if nodeID == "" {
		return nil, domain.NewValidationError("node id is required")
	}
	if depth <= 0 {
		return nil, nil
	}
	if depth > maxNeighborDepth {
		depth = maxNeighborDepth
	}
	if limit <= 0 {
		limit = defaultNeighborLimit
	}

	// Variable-length bounds cannot be parameterized in Cypher; depth is a
	// clamped positive integer.
	query := fmt.Sprintf(neighborsCypherTemplate, depth)
	res, err := p.client.ExecuteRead(ctx, query, map[string]any{
		"userId": nodeID,
		"limit":  limit,
	})
	if err != nil {
		return nil, domain.StoreError{Op: "neighbors within depth", Err: err}
	}

	paths := make([]domain.Path, 0, len(res.Records))
	for _, record := range res.Records {
		paths = append(paths, pathFromRecord(record))
	}
	return paths, nil
}

func pathFromRecord(record graph.Record) domain.Path {
	path := domain.Path{
		Found: true,
		Hops:  toInt(record["hops"]),
	}

	if nodesRaw, ok := record["nodes"].([]any); ok {
		for _, raw := range nodesRaw {
			if nodeMap, ok := raw.(map[string]any); ok {
				path.Nodes = append(path.Nodes, domain.PathNode{
					ID:     toString(nodeMap["id"]),
					Labels: toStringSlice(nodeMap["labels"]),
					Props:  toPropMap(nodeMap["props"]),
				})
			}
		}
	}
	if edgesRaw, ok := record["edges"].([]any); ok {
		for _, raw := range edgesRaw {
			if edgeMap, ok := raw.(map[string]any); ok {
				path.Edges = append(path.Edges, domain.PathEdge{
					ID:     toString(edgeMap["id"]),
					Type:   toString(edgeMap["kind"]),
					Source: toString(edgeMap["source"]),
					Target: toString(edgeMap["target"]),
					Props:  toPropMap(edgeMap["props"]),
				})
			}
		}
	}

	return path
}

const shortestPathCypherTemplate = `
MATCH (source:User {userId: $sourceId}), (target:User {userId: $targetId})
MATCH p = shortestPath((source)-[:KNOWS|SHARED_WITH*..%d]-(target))
WHERE $excludeTag = '' OR none(rel IN relationships(p)
	WHERE type(rel) = 'SHARED_WITH' AND rel.storyId = $excludeTag)
RETURN [n IN nodes(p) | {id: n.userId, labels: labels(n), props: properties(n)}] AS nodes,
       [rel IN relationships(p) | {
           id: toString(id(rel)),
           kind: type(rel),
           source: startNode(rel).userId,
           target: endNode(rel).userId,
           props: properties(rel)
       }] AS edges,
       length(p) AS hops
LIMIT 1
`

const neighborsCypherTemplate = `
MATCH p = (u:User {userId: $userId})-[:KNOWS|SHARED_WITH*1..%d]-(other:User)
WHERE other.userId <> $userId
RETURN [n IN nodes(p) | {id: n.userId, labels: labels(n), props: properties(n)}] AS nodes,
       [rel IN relationships(p) | {
           id: toString(id(rel)),
           kind: type(rel),
           source: startNode(rel).userId,
           target: endNode(rel).userId,
           props: properties(rel)
       }] AS edges,
       length(p) AS hops
ORDER BY hops ASC
LIMIT $limit
`
