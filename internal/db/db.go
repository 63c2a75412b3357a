// Package db defines the search engine contract consumed by the
// repositories. The engine executes weighted multi-field text queries and
// approximate nearest-neighbor vector queries over the catalog index.
package db

import (
	"context"
	"time"
)

// Store is the engine facade. Consumers depend on the narrow sub-interfaces.
type Store interface {
	Pinger
	KVStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks engine connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations (query embedding cache).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Searcher provides search operations over the catalog FT index.
type Searcher interface {
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
}

// TextQuery is the input for a weighted disjunctive text search. Query is a
// fully rendered FT.SEARCH expression; the db layer does not rewrite it.
type TextQuery struct {
	IndexName    string
	Query        string
	TopK         int
	ReturnFields []string
}

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
