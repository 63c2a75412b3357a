package health

import "context"

// EnginePinger checks search engine connectivity.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker verifies embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}
