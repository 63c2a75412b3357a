package search

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lavka-tech/prefiks/internal/domain"
	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
	"github.com/lavka-tech/prefiks/internal/domain/search/request"
)

func newTestService(engine Engine, embed Embedder) *Service {
	return New(engine, embed, DefaultPolicy(), zap.NewNop())
}

func mustRequest(t *testing.T, q string, topK int) *request.Request {
	t.Helper()
	req, err := request.New(q, topK, nil)
	if err != nil {
		t.Fatalf("request.New(%q): %v", q, err)
	}
	return &req
}

func TestSearchTextOnly(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(_ context.Context, nq query.Normalized, limit int) ([]candidate.Candidate, error) {
			if limit != 10*2 {
				t.Errorf("limit = %d, want topK x overfetch", limit)
			}
			return []candidate.Candidate{
				{ID: "a", Name: "Чай чёрный", TextScore: 5.0},
				{ID: "b", Name: "Чай зелёный", TextScore: 3.0},
			}, nil
		},
	}
	svc := newTestService(engine, nil)

	got, err := svc.Search(context.Background(), mustRequest(t, "чай", 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want 2", len(got))
	}
	if got[0].ID != "a" || got[0].Score != 5.0 {
		t.Errorf("top result = %+v", got[0])
	}
}

func TestSearchHybridFusion(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return []candidate.Candidate{
				{ID: "a", Name: "Чай чёрный", TextScore: 2.0},
				{ID: "b", Name: "Чай зелёный", TextScore: 2.2},
			}, nil
		},
		searchVectorFn: func(_ context.Context, _ []float32, k int) ([]candidate.Candidate, error) {
			if k != 10*10 {
				t.Errorf("k = %d, want topK x vector overfetch", k)
			}
			return []candidate.Candidate{{ID: "a", Name: "Чай чёрный", VectorScore: 0.9}}, nil
		},
	}
	svc := newTestService(engine, &mockEmbedder{})

	got, err := svc.Search(context.Background(), mustRequest(t, "чай", 10))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	// a: 2.0 + 0.5x0.9 = 2.45 overtakes b: 2.2.
	if got[0].ID != "a" {
		t.Errorf("top result = %q, want vector boost to reorder", got[0].ID)
	}
	if got[0].Score != 2.0+0.5*0.9 {
		t.Errorf("score = %v, want fused", got[0].Score)
	}
}

func TestSearchLayoutSwitchedQuery(t *testing.T) {
	var seenVariants []string
	engine := &mockEngine{
		searchTextFn: func(_ context.Context, nq query.Normalized, _ int) ([]candidate.Candidate, error) {
			for _, v := range nq.Variants {
				seenVariants = append(seenVariants, v.Text)
			}
			return []candidate.Candidate{{ID: "tea", Name: "Чай чёрный", TextScore: 1.2}}, nil
		},
	}
	svc := newTestService(engine, nil)

	got, err := svc.Search(context.Background(), mustRequest(t, "xfq", 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	if len(seenVariants) != 2 || seenVariants[0] != "xfq" || seenVariants[1] != "чай" {
		t.Errorf("variants = %v, want [xfq чай]", seenVariants)
	}
	if len(got) != 1 || got[0].ID != "tea" {
		t.Errorf("got %v, want the layout-switched match kept", got)
	}
}

func TestSearchTextFailureIsFatal(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := newTestService(engine, nil)

	_, err := svc.Search(context.Background(), mustRequest(t, "чай", 5))
	if !errors.Is(err, domain.ErrEngineUnavailable) {
		t.Fatalf("err = %v, want ErrEngineUnavailable", err)
	}
}

func TestSearchEmbeddingFailureDegradesToText(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return []candidate.Candidate{{ID: "a", Name: "Чай", TextScore: 3.0}}, nil
		},
		searchVectorFn: func(context.Context, []float32, int) ([]candidate.Candidate, error) {
			t.Error("vector search should not run when embedding fails")
			return nil, nil
		},
	}
	embed := &mockEmbedder{
		embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
			return domain.EmbeddingResult{}, errors.New("provider down")
		},
	}
	svc := newTestService(engine, embed)

	got, err := svc.Search(context.Background(), mustRequest(t, "чай", 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Score != 3.0 {
		t.Errorf("got %v, want text-only ranking", got)
	}
}

func TestSearchVectorFailureDegradesToText(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return []candidate.Candidate{{ID: "a", Name: "Чай", TextScore: 3.0}}, nil
		},
		searchVectorFn: func(context.Context, []float32, int) ([]candidate.Candidate, error) {
			return nil, errors.New("knn failed")
		},
	}
	svc := newTestService(engine, &mockEmbedder{})

	got, err := svc.Search(context.Background(), mustRequest(t, "чай", 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Score != 3.0 {
		t.Errorf("got %v, want text-only ranking", got)
	}
}

func TestSearchSlowVectorPathTimesOut(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return []candidate.Candidate{{ID: "a", Name: "Чай", TextScore: 3.0}}, nil
		},
	}
	embed := &mockEmbedder{
		embedFn: func(ctx context.Context, _ string) (domain.EmbeddingResult, error) {
			<-ctx.Done()
			return domain.EmbeddingResult{}, ctx.Err()
		},
	}

	policy := DefaultPolicy()
	policy.VectorTimeout = 10 * time.Millisecond
	svc := New(engine, embed, policy, zap.NewNop())

	start := time.Now()
	got, err := svc.Search(context.Background(), mustRequest(t, "чай", 5))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("took %v, want the vector path abandoned at its timeout", elapsed)
	}
	if len(got) != 1 || got[0].Score != 3.0 {
		t.Errorf("got %v, want text-only ranking", got)
	}
}

func TestSearchEmbeddingsDisabledByRequest(t *testing.T) {
	embedCalled := false
	embed := &mockEmbedder{
		embedFn: func(context.Context, string) (domain.EmbeddingResult, error) {
			embedCalled = true
			return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
		},
	}
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return []candidate.Candidate{{ID: "a", Name: "Чай", TextScore: 3.0}}, nil
		},
	}
	svc := newTestService(engine, embed)

	off := false
	req, err := request.New("чай", 5, &off)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	if _, err := svc.Search(context.Background(), &req); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if embedCalled {
		t.Error("embedder called with embeddings disabled")
	}
}

func TestSearchTruncatesToTopK(t *testing.T) {
	engine := &mockEngine{
		searchTextFn: func(context.Context, query.Normalized, int) ([]candidate.Candidate, error) {
			return []candidate.Candidate{
				{ID: "a", Name: "Чай а", TextScore: 5.0},
				{ID: "b", Name: "Чай б", TextScore: 4.0},
				{ID: "c", Name: "Чай в", TextScore: 3.0},
			}, nil
		},
	}
	svc := newTestService(engine, nil)

	got, err := svc.Search(context.Background(), mustRequest(t, "чай", 2))
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d results, want topK", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("got %v, want the two highest scores", got)
	}
}
