package search

import (
	"sort"
	"strings"

	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/candidate"
)

// filterNoise removes low-confidence hits before truncation. Policy, in
// order: a score above BypassScore passes unconditionally; a score below
// MinScore is dropped; anything in between must have some variant token as
// a case-insensitive prefix of the candidate's name, brand, or a keyword.
// Survivors are sorted by score descending, ties broken by the priority of
// the best-matching variant (original first).
func filterNoise(cands []scored, nq query.Normalized, p Policy) []candidate.Fused {
	kept := make([]scored, 0, len(cands))
	prio := make(map[string]int, len(cands))

	for _, c := range cands {
		matchPrio, matched := bestVariantMatch(c.Candidate, nq)

		if c.score <= p.BypassScore {
			if c.score < p.MinScore || !matched {
				continue
			}
		}
		if !matched {
			// Bypassed without a prefix match: sort after matching peers.
			matchPrio = len(nq.Variants)
		}

		prio[c.ID] = matchPrio
		kept = append(kept, c)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return prio[kept[i].ID] < prio[kept[j].ID]
	})

	out := make([]candidate.Fused, len(kept))
	for i, c := range kept {
		out[i] = candidate.Fused{
			ID:       c.ID,
			Name:     c.Name,
			Brand:    c.Brand,
			Category: c.Category,
			Score:    c.score,
		}
	}
	return out
}

// bestVariantMatch returns the priority of the highest-ranked variant that
// has a token prefix-matching the candidate's name, brand, or keywords.
func bestVariantMatch(c candidate.Candidate, nq query.Normalized) (int, bool) {
	targets := matchTargets(c)

	for _, v := range nq.Variants {
		for _, tok := range v.Tokens() {
			for _, tgt := range targets {
				if strings.HasPrefix(tgt, tok) {
					return v.Priority, true
				}
			}
		}
	}
	return 0, false
}

// matchTargets collects the lowercased tokens of the fields the prefix rule
// inspects: name, brand, and keywords.
func matchTargets(c candidate.Candidate) []string {
	targets := strings.Fields(strings.ToLower(c.Name))
	targets = append(targets, strings.Fields(strings.ToLower(c.Brand))...)
	for _, kw := range c.Keywords {
		targets = append(targets, strings.Fields(strings.ToLower(kw))...)
	}
	return targets
}
