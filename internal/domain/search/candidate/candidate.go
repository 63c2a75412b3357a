// Package candidate carries per-request search hits through fusion and
// noise filtering. Candidates are request-scoped values; nothing here
// outlives the request.
package candidate

// Candidate is a single catalog item surfaced by the text or vector query.
// TextScore is zero for vector-only hits and VectorScore is zero for
// text-only hits; fusion merges the two by ID.
type Candidate struct {
	ID          string
	Name        string
	Brand       string
	Keywords    []string
	Category    string
	TextScore   float64
	VectorScore float64
}

// Fused is a ranked result after score fusion and noise filtering.
type Fused struct {
	ID       string
	Name     string
	Brand    string
	Category string
	Score    float64
}
