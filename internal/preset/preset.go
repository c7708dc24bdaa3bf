// Package preset defines named rule-chain bundles, their JSON document
// format, and their persistence.
package preset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/franz/metadata-customizer/internal/rules"
	"github.com/franz/metadata-customizer/internal/song"
	"github.com/franz/metadata-customizer/internal/util"
)

// Preset is a named bundle of three ordered rule chains, one per target
// field, applied in the fixed order Title, Artist, Album.
type Preset struct {
	Name        string
	Description string
	Version     string
	Title       []rules.Rule
	Artist      []rules.Rule
	Album       []rules.Rule
	Metadata    map[string]any
}

// TargetOrder is the fixed order rule chains run in. Later targets'
// templates see earlier targets' rewritten values.
var TargetOrder = []string{song.FieldTitle, song.FieldArtist, song.FieldAlbum}

// Chain returns the rule chain for a target field.
func (p *Preset) Chain(target string) []rules.Rule {
	switch target {
	case song.FieldTitle:
		return p.Title
	case song.FieldArtist:
		return p.Artist
	case song.FieldAlbum:
		return p.Album
	}
	return nil
}

// ruleDoc is the wire format of one rule.
type ruleDoc struct {
	Logic        string `json:"logic"`
	IfField      string `json:"if_field"`
	IfOperator   string `json:"if_operator"`
	IfValue      string `json:"if_value"`
	ThenTemplate string `json:"then_template"`
	IsFirst      bool   `json:"is_first,omitempty"`
}

// document is the wire format of a preset.
type document struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	Rules       struct {
		Title  []ruleDoc `json:"title"`
		Artist []ruleDoc `json:"artist"`
		Album  []ruleDoc `json:"album"`
	} `json:"rules"`
	Metadata map[string]any `json:"metadata"`
}

// MarshalDocument serializes a preset to its JSON document form.
func MarshalDocument(p *Preset) ([]byte, error) {
	doc := document{
		Name:        p.Name,
		Description: p.Description,
		Version:     p.Version,
		Metadata:    p.Metadata,
	}
	if doc.Version == "" {
		doc.Version = "1.0"
	}
	if doc.Metadata == nil {
		doc.Metadata = map[string]any{}
	}
	doc.Rules.Title = rulesToDocs(p.Title)
	doc.Rules.Artist = rulesToDocs(p.Artist)
	doc.Rules.Album = rulesToDocs(p.Album)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to marshal preset: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalDocument parses a preset document. Condition fields are resolved
// through the alias table when possible; unknown fields pass through
// untouched so rules can target arbitrary raw fields.
func UnmarshalDocument(data []byte) (*Preset, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidPreset, err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: missing name", util.ErrInvalidPreset)
	}

	return &Preset{
		Name:        doc.Name,
		Description: doc.Description,
		Version:     doc.Version,
		Title:       docsToRules(doc.Rules.Title),
		Artist:      docsToRules(doc.Rules.Artist),
		Album:       docsToRules(doc.Rules.Album),
		Metadata:    doc.Metadata,
	}, nil
}

func rulesToDocs(chain []rules.Rule) []ruleDoc {
	docs := make([]ruleDoc, 0, len(chain))
	for _, r := range chain {
		docs = append(docs, ruleDoc{
			Logic:        string(r.Logic),
			IfField:      r.Field,
			IfOperator:   string(r.Operator),
			IfValue:      r.Value,
			ThenTemplate: r.Template,
			IsFirst:      r.First,
		})
	}
	return docs
}

func docsToRules(docs []ruleDoc) []rules.Rule {
	chain := make([]rules.Rule, 0, len(docs))
	for _, d := range docs {
		field := d.IfField
		if canonical, ok := song.CanonicalField(field); ok {
			field = canonical
		}
		logic := d.Logic
		if logic == "" {
			logic = string(rules.LogicAnd)
		}
		chain = append(chain, rules.Rule{
			Logic:    rules.Logic(logic),
			Field:    field,
			Operator: rules.Operator(d.IfOperator),
			Value:    d.IfValue,
			Template: d.ThenTemplate,
			First:    d.IsFirst,
		})
	}
	return chain
}
