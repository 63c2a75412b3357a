package search

import (
	"context"

	"github.com/lavka-tech/prefiks/internal/domain"
	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
)

// mockEngine implements Engine with pluggable behavior.
type mockEngine struct {
	searchTextFn   func(ctx context.Context, nq query.Normalized, limit int) ([]candidate.Candidate, error)
	searchVectorFn func(ctx context.Context, vector []float32, k int) ([]candidate.Candidate, error)
}

func (m *mockEngine) SearchText(
	ctx context.Context, nq query.Normalized, limit int,
) ([]candidate.Candidate, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, nq, limit)
	}
	return nil, nil
}

func (m *mockEngine) SearchVector(
	ctx context.Context, vector []float32, k int,
) ([]candidate.Candidate, error) {
	if m.searchVectorFn != nil {
		return m.searchVectorFn(ctx, vector, k)
	}
	return nil, nil
}

// mockEmbedder implements Embedder with pluggable behavior.
type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}
