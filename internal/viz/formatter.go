// Package viz converts graph query output into the canonical nodes/links
// document consumed by force-directed visualizations.
package viz

import (
	"github.com/google/uuid"

	"github.com/nellermoe/storybridge-backend/internal/domain"
)

// Node is a visualization node. Group drives client-side coloring and is
// derived from the node's first label.
type Node struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Group      string         `json:"group"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Link is a visualization edge between two node identifiers.
type Link struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Graph is the canonical visualization document. Nodes are unique by id;
// links keep their input order and may repeat.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// unknownGroup is assigned when a node carries no labels.
const unknownGroup = "Unknown"

// FormatCollection builds a Graph from raw node and edge records. Nodes are
// deduplicated by identifier with the first occurrence winning; edges pass
// through in order without deduplication. Records missing an identifier get
// a generated placeholder so the document stays renderable.
func FormatCollection(nodes []domain.RawNode, edges []domain.RawEdge) Graph {
	b := newBuilder()
	for _, node := range nodes {
		b.addNode(node.ID, node.Labels, node.Props)
	}
	for _, edge := range edges {
		b.addLink(edge.ID, edge.Source, edge.Target, edge.Type, edge.Props)
	}
	return b.graph()
}

// FormatPath builds a Graph from a single path.
func FormatPath(path domain.Path) Graph {
	return FormatPaths([]domain.Path{path})
}

// FormatPaths merges multiple paths into one Graph. Nodes shared across
// paths appear once; each path's edges are appended in traversal order.
func FormatPaths(paths []domain.Path) Graph {
	b := newBuilder()
	for _, path := range paths {
		if !path.Found {
			continue
		}
		for _, node := range path.Nodes {
			b.addNode(node.ID, node.Labels, node.Props)
		}
		for _, edge := range path.Edges {
			b.addLink(edge.ID, edge.Source, edge.Target, edge.Type, edge.Props)
		}
	}
	return b.graph()
}

// Normalize re-applies the canonical formatting rules to an existing Graph.
// Applying it to already-canonical input returns an equal document.
func Normalize(g Graph) Graph {
	b := newBuilder()
	for _, node := range g.Nodes {
		b.addFormattedNode(node)
	}
	for _, link := range g.Links {
		b.addLink(link.ID, link.Source, link.Target, link.Type, link.Properties)
	}
	return b.graph()
}

type builder struct {
	nodes []Node
	links []Link
	seen  map[string]struct{}
}

func newBuilder() *builder {
	return &builder{
		nodes: []Node{},
		links: []Link{},
		seen:  make(map[string]struct{}),
	}
}

func (b *builder) addNode(id string, labels []string, props map[string]any) {
	if id == "" {
		id = uuid.NewString()
	}
	if _, dup := b.seen[id]; dup {
		return
	}
	b.seen[id] = struct{}{}

	group := unknownGroup
	if len(labels) > 0 {
		group = labels[0]
	}

	name := displayName(props)
	if name == "" {
		name = id
	}

	b.nodes = append(b.nodes, Node{
		ID:         id,
		Name:       name,
		Group:      group,
		Properties: props,
	})
}

func (b *builder) addFormattedNode(node Node) {
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	if _, dup := b.seen[node.ID]; dup {
		return
	}
	b.seen[node.ID] = struct{}{}

	if node.Group == "" {
		node.Group = unknownGroup
	}
	if node.Name == "" {
		node.Name = node.ID
	}
	b.nodes = append(b.nodes, node)
}

func (b *builder) addLink(id, source, target, kind string, props map[string]any) {
	if id == "" {
		id = uuid.NewString()
	}
	b.links = append(b.links, Link{
		ID:         id,
		Source:     source,
		Target:     target,
		Type:       kind,
		Properties: props,
	})
}

func (b *builder) graph() Graph {
	return Graph{Nodes: b.nodes, Links: b.links}
}

func displayName(props map[string]any) string {
	if props == nil {
		return ""
	}
	for _, key := range []string{"name", "title"} {
		if s, ok := props[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
