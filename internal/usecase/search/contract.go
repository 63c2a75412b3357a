package search

import (
	"context"

	"github.com/lavka-tech/prefiks/internal/domain"
	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
)

// Engine executes catalog queries against the external search index.
type Engine interface {
	SearchText(ctx context.Context, nq query.Normalized, limit int) ([]candidate.Candidate, error)
	SearchVector(ctx context.Context, vector []float32, k int) ([]candidate.Candidate, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
