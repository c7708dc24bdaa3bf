package rules

// The chain resolver walks an ordered rule list and yields at most one
// rewritten value. It is written as an explicit two-cursor state machine
// (scanning / lookahead / resolved) because the lookahead-with-abort-and-
// resume behavior is subtle: an aborted lookahead resumes the outer scan
// immediately after the group marker, not after the rule that broke the
// group.
type chainState int

const (
	stateScanning chainState = iota
	stateLookahead
	stateResolved
)

// Resolve runs a rule chain for one target field against a subject and
// returns the rewritten value, or ok=false to leave the field unchanged.
//
// Scanning handles three rule shapes at the cursor:
//   - a chain opener (First with a template): matches -> render and resolve;
//   - a standalone OR rule with a template: matches -> render and resolve;
//   - a group marker (First without a template, or AND/OR without a
//     template): matches -> enter lookahead with the marker's condition as
//     the group condition.
//
// Lookahead scans forward from the marker. Rows repeating the exact group
// condition under AND or OR with no template pass through. The first row
// that combines the group condition with AND logic and a template resolves
// the chain if the condition still matches. A row that opens a new chain
// (First with a template) or breaks the same-condition repetition aborts the
// lookahead; the outer scan resumes one past the marker.
//
// Resolve is a pure function of the subject snapshot and the rule list.
// Malformed rules never match and are skipped.
func Resolve(s Subject, chain []Rule) (string, bool) {
	state := stateScanning
	var group Rule
	var value string
	i, j := 0, 0

	for state != stateResolved {
		switch state {
		case stateScanning:
			if i >= len(chain) {
				return "", false
			}
			r := chain[i]
			matched := Evaluate(s, r.Field, r.Operator, r.Value)

			switch {
			case r.First && r.Template != "":
				if matched {
					value = Render(r.Template, s.Fields)
					state = stateResolved
					continue
				}
			case r.Logic == LogicOr && r.Template != "":
				if matched {
					value = Render(r.Template, s.Fields)
					state = stateResolved
					continue
				}
			case r.Template == "" && (r.First || r.Logic == LogicAnd || r.Logic == LogicOr):
				if matched {
					group = r
					j = i + 1
					state = stateLookahead
					continue
				}
			}
			i++

		case stateLookahead:
			if j >= len(chain) {
				// Group ran off the end without a result row.
				state = stateScanning
				i++
				continue
			}
			r := chain[j]

			switch {
			case r.First && r.Template != "":
				// A new chain begins; abort and resume after the marker.
				state = stateScanning
				i++
			case r.Template == "" && (r.Logic == LogicAnd || r.Logic == LogicOr) && sameCondition(r, group):
				// Pass-through continuation row.
				j++
			case r.Template != "" && r.Logic == LogicAnd && sameCondition(r, group):
				if Evaluate(s, r.Field, r.Operator, r.Value) {
					value = Render(r.Template, s.Fields)
					state = stateResolved
					continue
				}
				state = stateScanning
				i++
			default:
				// Repetition pattern broken.
				state = stateScanning
				i++
			}
		}
	}

	return value, true
}
