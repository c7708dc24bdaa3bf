// Package rules implements the conditional rewrite engine: single-condition
// evaluation, {Field} template rendering, and the ordered AND/OR rule chain
// resolver that produces at most one rewritten value per target field.
package rules

import (
	"github.com/franz/metadata-customizer/internal/song"
)

// Logic joins a rule to its chain.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// Operator is a condition operator. The strings are part of the preset
// document format and must not change.
type Operator string

const (
	OpIs          Operator = "is"
	OpContains    Operator = "contains"
	OpStartsWith  Operator = "starts with"
	OpEndsWith    Operator = "ends with"
	OpIsEmpty     Operator = "is empty"
	OpIsNotEmpty  Operator = "is not empty"
	OpIsLatest    Operator = "is latest version"
	OpIsNotLatest Operator = "is not latest version"
)

// Operators lists every valid condition operator.
var Operators = []Operator{
	OpIs,
	OpContains,
	OpStartsWith,
	OpEndsWith,
	OpIsEmpty,
	OpIsNotEmpty,
	OpIsLatest,
	OpIsNotLatest,
}

// Rule is one row of a rule chain. A rule with a template produces output
// when its condition matches; a rule without one is a group marker or
// continuation row (see Resolve).
type Rule struct {
	Logic    Logic
	Field    string
	Operator Operator
	Value    string
	Template string
	First    bool
}

// sameCondition reports whether two rules test the identical condition.
func sameCondition(a, b Rule) bool {
	return a.Field == b.Field && a.Operator == b.Operator && a.Value == b.Value
}

// Subject is the record under evaluation: its current field values plus the
// latest-version flag, which the caller derives from the index and passes in
// explicitly.
type Subject struct {
	Fields song.Fields
	Latest bool
}
