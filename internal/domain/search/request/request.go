// Package request validates incoming search parameters.
package request

import (
	"fmt"
	"strings"

	"github.com/lavka-tech/prefiks/internal/domain"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed query length in bytes.
	MaxQueryLength = 1024
	DefaultTopK    = 5
	MaxTopK        = 100
)

// Request is a validated search request.
type Request struct {
	query         string
	topK          int
	useEmbeddings bool
}

// New validates and normalizes search parameters.
// Defaults: topK=5, useEmbeddings=true (when nil).
func New(query string, topK int, useEmbeddings *bool) (Request, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	use := true
	if useEmbeddings != nil {
		use = *useEmbeddings
	}
	return Request{query: query, topK: topK, useEmbeddings: use}, nil
}

// Query returns the trimmed raw query text.
func (r *Request) Query() string { return r.query }

// TopK returns the number of results to return.
func (r *Request) TopK() int { return r.topK }

// UseEmbeddings reports whether the vector path should run.
func (r *Request) UseEmbeddings() bool { return r.useEmbeddings }
