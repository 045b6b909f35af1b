package domain

// PathNode represents a node within a graph path.
type PathNode struct {
	ID     string
	Labels []string
	Props  map[string]any
}

// PathEdge represents an edge between two adjacent nodes in a path.
type PathEdge struct {
	ID     string
	Type   string
	Source string
	Target string
	Props  map[string]any
}

// Path is an ordered node/edge sequence between two nodes. Found is false
// when the endpoints lie in disconnected components; Hops is only
// meaningful when Found is true. A self path is Found with zero hops and a
// single node.
type Path struct {
	Found bool
	Nodes []PathNode
	Edges []PathEdge
	Hops  int
}

// RawNode is an untyped node record as returned by graph-slice queries,
// before visualization formatting.
type RawNode struct {
	ID     string
	Labels []string
	Props  map[string]any
}

// RawEdge is an untyped edge record as returned by graph-slice queries.
type RawEdge struct {
	ID     string
	Type   string
	Source string
	Target string
	Props  map[string]any
}

// NetworkSlice is a bounded node/edge cut of the graph used for
// visualization.
type NetworkSlice struct {
	Nodes []RawNode
	Edges []RawEdge
}
