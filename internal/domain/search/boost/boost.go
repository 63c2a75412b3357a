// Package boost holds the per-field relevance weights applied to catalog
// queries.
package boost

// Table maps catalog fields to clause weights. Built once at startup and
// never mutated per request, so concurrent readers need no locking.
type Table struct {
	NameExact    float64
	NamePrefix   float64
	Brand        float64
	Keywords     float64
	Category     float64
	Description  float64
	NumericMatch float64
}

// Default returns the production weight profile.
func Default() Table {
	return Table{
		NameExact:    5.0,
		NamePrefix:   4.0,
		Brand:        3.0,
		Keywords:     2.0,
		Category:     1.5,
		Description:  1.0,
		NumericMatch: 2.0,
	}
}
