package preset

import (
	"github.com/franz/metadata-customizer/internal/rules"
	"github.com/franz/metadata-customizer/internal/song"
)

// Change records one field rewrite produced by a preset.
type Change struct {
	Field string
	Old   string
	New   string
}

// Apply runs the preset's rule chains against a field map and returns the
// rewritten copy plus the list of changes. The input map is never mutated.
// latest is the record's latest-version flag, derived by the caller from the
// index.
func (p *Preset) Apply(fields song.Fields, latest bool) (song.Fields, []Change) {
	result := fields.Clone()
	var changes []Change

	for _, target := range TargetOrder {
		chain := p.Chain(target)
		if len(chain) == 0 {
			continue
		}
		subject := rules.Subject{Fields: result, Latest: latest}
		value, ok := rules.Resolve(subject, chain)
		if !ok {
			continue
		}
		old := result.String(target)
		if value == old {
			continue
		}
		result[target] = value
		changes = append(changes, Change{Field: target, Old: old, New: value})
	}

	return result, changes
}
