package rules

import "strings"

// Evaluate tests one (field, operator, value) condition against a subject.
// String comparisons are case-insensitive; a missing field reads as the
// empty string. Unknown operators never match, so a malformed rule degrades
// to "no match" instead of failing.
func Evaluate(s Subject, field string, op Operator, value string) bool {
	fieldValue := strings.ToLower(s.Fields.String(field))
	conditionValue := strings.ToLower(value)

	switch op {
	case OpIs:
		return fieldValue == conditionValue
	case OpContains:
		return strings.Contains(fieldValue, conditionValue)
	case OpStartsWith:
		return strings.HasPrefix(fieldValue, conditionValue)
	case OpEndsWith:
		return strings.HasSuffix(fieldValue, conditionValue)
	case OpIsEmpty:
		return fieldValue == ""
	case OpIsNotEmpty:
		return fieldValue != ""
	case OpIsLatest:
		return s.Latest
	case OpIsNotLatest:
		return !s.Latest
	}
	return false
}
