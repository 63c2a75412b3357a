// Package search orchestrates the query pipeline: normalization, the
// text/vector fan-out, score fusion, and noise filtering.
package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lavka-tech/prefiks/internal/domain"
	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
	"github.com/lavka-tech/prefiks/internal/domain/search/request"
	"github.com/lavka-tech/prefiks/internal/metrics"
)

// Policy holds the tunable ranking parameters. The defaults mirror observed
// production behavior; none of them is a hard invariant.
type Policy struct {
	// VectorWeight scales the vector score during fusion (text weight is 1).
	VectorWeight float64
	// TextOverfetch and VectorOverfetch are candidates fetched per
	// requested result, compensating for losses in the noise filter.
	TextOverfetch   int
	VectorOverfetch int
	// BypassScore retains a candidate unconditionally; MinScore drops it.
	BypassScore float64
	MinScore    float64
	// VectorTimeout bounds the embed+KNN path before degrading to
	// text-only ranking.
	VectorTimeout time.Duration
}

// DefaultPolicy returns the production ranking parameters.
func DefaultPolicy() Policy {
	return Policy{
		VectorWeight:    0.5,
		TextOverfetch:   2,
		VectorOverfetch: 10,
		BypassScore:     2.0,
		MinScore:        0.1,
		VectorTimeout:   2 * time.Second,
	}
}

// Service handles catalog search requests. It is stateless: nothing is
// shared across concurrent requests except the read-only policy and tables.
type Service struct {
	engine Engine
	embed  Embedder
	policy Policy
	logger *zap.Logger
}

// New creates a search service. embed can be nil, which disables the
// vector path entirely.
func New(engine Engine, embed Embedder, policy Policy, logger *zap.Logger) *Service {
	return &Service{engine: engine, embed: embed, policy: policy, logger: logger}
}

// Search runs the full pipeline for one request. The text query and the
// embed+KNN path run concurrently; fusion waits for both. A failed or slow
// vector path degrades the request to text-only ranking, while a failed
// text query fails the request.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]candidate.Fused, error) {
	nq := query.Normalize(req.Query())

	var vectorCh chan []candidate.Candidate
	if req.UseEmbeddings() && s.embed != nil {
		vectorCh = make(chan []candidate.Candidate, 1)
		vctx, cancel := context.WithTimeout(ctx, s.policy.VectorTimeout)
		go func() {
			defer cancel()
			vectorCh <- s.vectorHits(vctx, nq, req.TopK())
		}()
	}

	textHits, err := s.engine.SearchText(ctx, nq, req.TopK()*s.policy.TextOverfetch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEngineUnavailable, err)
	}

	var vectorHits []candidate.Candidate
	if vectorCh != nil {
		vectorHits = <-vectorCh
	}

	fused := fuse(textHits, vectorHits, s.policy.VectorWeight)
	results := filterNoise(fused, nq, s.policy)
	if len(results) > req.TopK() {
		results = results[:req.TopK()]
	}

	metrics.SearchResultsCount.Observe(float64(len(results)))
	return results, nil
}

// vectorHits embeds the primary variant and runs the ANN query. Any failure
// returns nil: the request degrades to text-only ranking instead of erroring.
func (s *Service) vectorHits(ctx context.Context, nq query.Normalized, topK int) []candidate.Candidate {
	emb, err := s.embed.Embed(ctx, nq.Variants[0].Text)
	if err != nil {
		s.logger.Warn("embedding unavailable, ranking text-only", zap.Error(err))
		metrics.SearchDegradedTotal.Inc()
		return nil
	}

	hits, err := s.engine.SearchVector(ctx, emb.Embedding, topK*s.policy.VectorOverfetch)
	if err != nil {
		s.logger.Warn("vector search failed, ranking text-only", zap.Error(err))
		metrics.SearchDegradedTotal.Inc()
		return nil
	}
	return hits
}
