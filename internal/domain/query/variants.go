// Package query normalizes raw catalog queries: numeric attribute
// extraction, keyboard layout switching, transliteration, and variant
// generation. Everything here is a pure function over immutable tables.
package query

import "strings"

// Origin identifies how a query variant was produced.
type Origin string

// Variant origins, in priority order.
const (
	Original        Origin = "original"
	NumericStripped Origin = "numeric_stripped"
	LayoutSwitched  Origin = "layout_switched"
	Transliterated  Origin = "transliterated"
)

// Variant is one candidate rendering of the user's query. Priority is the
// rank used as a tie-break between candidates with identical fused scores;
// it never discards a variant's hits.
type Variant struct {
	Text     string
	Origin   Origin
	Priority int
}

// Tokens returns the lowercased whitespace-split tokens of the variant.
func (v Variant) Tokens() []string {
	return strings.Fields(strings.ToLower(v.Text))
}

// Normalized is a raw query resolved into ordered search variants plus an
// optional numeric constraint. The variant list is never empty and no
// variant has empty text.
type Normalized struct {
	Variants  []Variant
	Attribute *Attribute
}

// Normalize turns one raw query string into 1..3 deduplicated variants.
// The (possibly numeric-stripped) original is always first; layout-switched
// and transliterated renderings are added only when they differ from it
// after case and whitespace folding.
func Normalize(raw string) Normalized {
	residual, attr := Extract(raw)

	base := strings.Join(strings.Fields(residual), " ")
	origin := Original
	if attr != nil {
		origin = NumericStripped
	}
	if base == "" {
		// The query was nothing but the numeric token; keep searching the
		// raw text so the variant list stays non-empty.
		base = strings.Join(strings.Fields(raw), " ")
		origin = Original
	}

	variants := []Variant{{Text: base, Origin: origin, Priority: 0}}
	seen := map[string]bool{foldKey(base): true}

	if switched := SwitchLayout(base); switched != "" && !seen[foldKey(switched)] {
		variants = append(variants, Variant{Text: switched, Origin: LayoutSwitched, Priority: 1})
		seen[foldKey(switched)] = true
	}

	if latin := Transliterate(base); latin != "" && !seen[foldKey(latin)] {
		variants = append(variants, Variant{Text: latin, Origin: Transliterated, Priority: 2})
	}

	return Normalized{Variants: variants, Attribute: attr}
}

// foldKey is the dedup key: lowercased, whitespace-collapsed text.
func foldKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
