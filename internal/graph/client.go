package graph

import (
	"context"
	"errors"
)

// Client is the declarative-query contract the repositories depend on. A
// query is a Cypher statement plus a parameter map; the response is a flat
// list of key/value records. Implementations must scope one session per
// call and release it on every exit path.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine. Values may
// be primitives, maps, or lists of either, depending on the query's RETURN
// projection.
type Record map[string]any

// Config describes connectivity to the graph store.
type Config struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
