package search

import (
	"context"

	"github.com/lavka-tech/prefiks/internal/db"
)

// mockStore implements the store interface with pluggable behavior.
type mockStore struct {
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	searchKNNFn  func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}
