// Package search adapts the engine store to the search pipeline contracts:
// it renders normalized queries into engine requests and parses engine hits
// into candidates.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/lavka-tech/prefiks/internal/db"
	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/boost"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
)

// store is the consumer interface for engine search operations (ISP).
type store interface {
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Config holds catalog index parameters.
type Config struct {
	IndexName string
	KeyPrefix string
	// Tolerance is the numeric boost band as a fraction of the target
	// value (0.10 boosts items within ±10%).
	Tolerance float64
}

// Repo implements usecase/search.Engine.
type Repo struct {
	store     store
	weights   boost.Table
	index     string
	keyPrefix string
	tolerance float64
}

// New creates a search repository.
func New(s store, weights boost.Table, cfg Config) *Repo {
	return &Repo{
		store:     s,
		weights:   weights,
		index:     cfg.IndexName,
		keyPrefix: cfg.KeyPrefix,
		tolerance: cfg.Tolerance,
	}
}

// Catalog fields returned with every hit. Weight and volume are stored in
// canonical units (kg, l).
var returnFields = []string{"name", "brand", "keywords", "category"}

// SearchText executes the weighted multi-field query for all variants.
func (r *Repo) SearchText(
	ctx context.Context, nq query.Normalized, limit int,
) ([]candidate.Candidate, error) {
	qs := buildQuery(nq, r.weights, r.tolerance)
	if qs == "" {
		return nil, nil
	}

	sr, err := r.store.SearchText(ctx, &db.TextQuery{
		IndexName:    r.index,
		Query:        qs,
		TopK:         limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}

	return r.parseCandidates(sr, false), nil
}

// SearchVector executes an approximate nearest-neighbor query over the
// catalog embedding field.
func (r *Repo) SearchVector(
	ctx context.Context, vector []float32, k int,
) ([]candidate.Candidate, error) {
	fields := append([]string{"__embedding_score"}, returnFields...)

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vector,
		K:            k,
		ReturnFields: fields,
	})
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return r.parseCandidates(sr, true), nil
}

// parseCandidates converts engine hits into candidates. entry.Score lands
// in TextScore or VectorScore depending on which path produced the hit.
func (r *Repo) parseCandidates(sr *db.SearchResult, vector bool) []candidate.Candidate {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	out := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		c := candidate.Candidate{
			ID:       strings.TrimPrefix(entry.Key, r.keyPrefix),
			Name:     entry.Fields["name"],
			Brand:    entry.Fields["brand"],
			Category: entry.Fields["category"],
			Keywords: splitKeywords(entry.Fields["keywords"]),
		}
		if vector {
			c.VectorScore = entry.Score
		} else {
			c.TextScore = entry.Score
		}
		out = append(out, c)
	}
	return out
}

// splitKeywords splits the stored comma-separated keyword list.
func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
