package domain

import "errors"

var (
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("empty query")
	// ErrInvalidRequest signals malformed search parameters.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEngineUnavailable signals that the search engine cannot be reached.
	ErrEngineUnavailable = errors.New("search engine unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
