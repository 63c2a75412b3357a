package search

import (
	"fmt"
	"strings"

	"github.com/lavka-tech/prefiks/internal/domain/query"
	"github.com/lavka-tech/prefiks/internal/domain/search/boost"
)

// buildQuery renders a normalized query as a disjunctive weighted FT.SEARCH
// expression. Every variant contributes one clause per catalog field; the
// numeric attribute, when present, adds a single range clause. All clauses
// are optional: the engine scores each document by whichever clauses match,
// so items without a matching numeric attribute are boosted less, never
// excluded.
func buildQuery(nq query.Normalized, weights boost.Table, tolerance float64) string {
	var clauses []string

	for _, v := range nq.Variants {
		tokens := escapeTokens(v.Tokens())
		if len(tokens) == 0 {
			continue
		}

		// Terms within one field group are OR'd so a partial token hit
		// still scores ("греч не" against "гречневая каша").
		exact := strings.Join(tokens, "|")
		prefixTokens := make([]string, len(tokens))
		for i, t := range tokens {
			prefixTokens[i] = t + "*"
		}
		prefix := strings.Join(prefixTokens, "|")

		clauses = append(clauses,
			weighted("name", exact, weights.NameExact),
			weighted("name", prefix, weights.NamePrefix),
			weighted("brand", exact, weights.Brand),
			weighted("keywords", exact, weights.Keywords),
			weighted("category", exact, weights.Category),
			weighted("description", exact, weights.Description),
		)
	}

	if attr := nq.Attribute; attr != nil {
		field := "weight"
		if attr.Kind == query.Volume {
			field = "volume"
		}
		lo := attr.Value * (1 - tolerance)
		hi := attr.Value * (1 + tolerance)
		// %.6g keeps binary float noise out of the rendered bounds.
		clauses = append(clauses, fmt.Sprintf(
			"(@%s:[%.6g %.6g])=>{$weight:%g;}", field, lo, hi, weights.NumericMatch,
		))
	}

	return strings.Join(clauses, " | ")
}

func weighted(field, terms string, weight float64) string {
	return fmt.Sprintf("(@%s:(%s))=>{$weight:%g;}", field, terms, weight)
}

// escapeTokens escapes FT query syntax inside user tokens and drops tokens
// that end up empty.
func escapeTokens(tokens []string) []string {
	out := tokens[:0:0]
	for _, t := range tokens {
		if e := tokenEscaper.Replace(t); e != "" {
			out = append(out, e)
		}
	}
	return out
}

var tokenEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`:`, `\:`,
	`;`, `\;`,
)
