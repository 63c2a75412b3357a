package search

import "github.com/lavka-tech/prefiks/internal/domain/search/candidate"

// scored is a candidate with its fused score.
type scored struct {
	candidate.Candidate
	score float64
}

// fuse merges text and vector hits by document id:
//
//	score = textScore + vectorWeight × max(0, vectorScore)
//
// A document missing from one list contributes zero on that side. Pure
// merge; no re-querying per candidate.
func fuse(textHits, vectorHits []candidate.Candidate, vectorWeight float64) []scored {
	merged := make(map[string]*candidate.Candidate, len(textHits)+len(vectorHits))
	order := make([]string, 0, len(textHits)+len(vectorHits))

	for i := range textHits {
		h := textHits[i]
		merged[h.ID] = &h
		order = append(order, h.ID)
	}

	for i := range vectorHits {
		h := vectorHits[i]
		if existing, ok := merged[h.ID]; ok {
			existing.VectorScore = h.VectorScore
			continue
		}
		merged[h.ID] = &h
		order = append(order, h.ID)
	}

	out := make([]scored, 0, len(order))
	for _, id := range order {
		c := merged[id]
		out = append(out, scored{
			Candidate: *c,
			score:     c.TextScore + vectorWeight*max(0, c.VectorScore),
		})
	}
	return out
}
