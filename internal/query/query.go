// Package query implements the search mini-language: structured
// field-operator-value tokens mixed with free text, and the filter pass that
// narrows a record set with them.
package query

import (
	"regexp"
	"strings"

	"github.com/franz/metadata-customizer/internal/song"
)

// Filter is one parsed field comparison. Quoted records whether the value
// was written in quotes; a quoted value with "=" or "~" compares for exact
// equality instead of substring containment.
type Filter struct {
	Field  string // canonical field name
	Op     string
	Value  string
	Quoted bool
}

// Operators, longest first so that ">=" wins over ">" and "!=" over "=".
const operatorPattern = `==|!=|!~|>=|<=|>|<|=|~`

var tokenRe = regexp.MustCompile(
	`(?i)\b(` + song.AliasPattern() + `)\s*(` + operatorPattern + `)\s*(?:"([^"]+)"|'([^']+)'|(\S+))`,
)

// Parse splits a query into structured filters and lower-cased free-text
// terms. Tokens look like field<op>value with an optionally quoted value;
// anything that fails to parse as a token stays behind as free text rather
// than producing an error.
func Parse(q string) ([]Filter, []string) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	var filters []Filter
	for _, m := range tokenRe.FindAllStringSubmatch(q, -1) {
		field, ok := song.CanonicalField(m[1])
		if !ok {
			continue
		}
		value := m[3]
		if value == "" {
			value = m[4]
		}
		quoted := value != ""
		if value == "" {
			value = m[5]
		}
		filters = append(filters, Filter{Field: field, Op: m[2], Value: value, Quoted: quoted})
	}

	remainder := tokenRe.ReplaceAllString(q, "")
	var terms []string
	for _, t := range strings.Fields(remainder) {
		terms = append(terms, strings.ToLower(t))
	}

	return filters, terms
}
