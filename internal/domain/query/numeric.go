package query

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies a numeric attribute.
type Kind string

// Attribute kinds.
const (
	Weight Kind = "weight"
	Volume Kind = "volume"
)

// Unit is a canonical measurement unit.
type Unit string

// Canonical units. Aliases collapse to kilograms for weight and liters
// for volume.
const (
	Kilogram   Unit = "kg"
	Gram       Unit = "g"
	Liter      Unit = "l"
	Milliliter Unit = "ml"
)

// Attribute is a weight or volume constraint pulled out of query text.
type Attribute struct {
	Kind  Kind
	Value float64
	Unit  Unit
}

// unitAlias maps a raw unit token to its kind, canonical unit, and the
// factor that rescales the written magnitude into the canonical unit.
type unitAlias struct {
	kind   Kind
	unit   Unit
	factor float64
}

var unitAliases = map[string]unitAlias{
	"кг": {Weight, Kilogram, 1},
	"kg": {Weight, Kilogram, 1},
	"г":  {Weight, Kilogram, 0.001},
	"g":  {Weight, Kilogram, 0.001},
	"л":  {Volume, Liter, 1},
	"l":  {Volume, Liter, 1},
	"лт": {Volume, Liter, 1},
	"мл": {Volume, Liter, 0.001},
	"ml": {Volume, Liter, 0.001},
}

// Two-letter aliases come first in the alternation so "кг" is not read as
// a bare "г". The trailing group rejects units glued to more letters
// ("10лимонов" is not a volume).
var numericPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(кг|мл|лт|kg|ml|л|г|g|l)(\P{L}|$)`)

// Extract scans text for the first digit run followed by a recognized unit
// alias and returns the residual text plus the canonicalized attribute.
// Only one attribute is ever extracted; digits without a recognized unit
// are left in place and yield a nil attribute.
func Extract(text string) (string, *Attribute) {
	m := numericPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return text, nil
	}

	valueStr := strings.ReplaceAll(text[m[2]:m[3]], ",", ".")
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return text, nil
	}

	alias, ok := unitAliases[strings.ToLower(text[m[4]:m[5]])]
	if !ok {
		return text, nil
	}

	// Drop exactly the matched digits+unit; the lookahead rune after the
	// unit (group 3) stays in the residual.
	residual := strings.Join(strings.Fields(text[:m[0]]+" "+text[m[5]:]), " ")

	return residual, &Attribute{
		Kind:  alias.kind,
		Value: value * alias.factor,
		Unit:  alias.unit,
	}
}
