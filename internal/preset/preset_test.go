package preset

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/franz/metadata-customizer/internal/rules"
	"github.com/franz/metadata-customizer/internal/song"
)

func samplePreset() *Preset {
	return &Preset{
		Name:        "covers",
		Description: "Tag cover versions",
		Version:     "1.0",
		Title: []rules.Rule{
			{First: true, Logic: rules.LogicAnd, Field: song.FieldCoverArtist, Operator: rules.OpIsNotEmpty, Template: "{Title} ({CoverArtist} Cover)"},
			{Logic: rules.LogicOr, Field: song.FieldSpecial, Operator: rules.OpContains, Value: "live", Template: "{Title} [Live]"},
		},
		Artist: []rules.Rule{
			{First: true, Logic: rules.LogicAnd, Field: song.FieldCoverArtist, Operator: rules.OpIsNotEmpty, Template: "{CoverArtist}"},
		},
		Metadata: map[string]any{"author": "franz"},
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	p := samplePreset()

	data, err := MarshalDocument(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Name != p.Name || got.Description != p.Description || got.Version != p.Version {
		t.Errorf("header fields changed: %+v", got)
	}
	if !reflect.DeepEqual(got.Title, p.Title) {
		t.Errorf("title rules changed:\n got %+v\nwant %+v", got.Title, p.Title)
	}
	if !reflect.DeepEqual(got.Artist, p.Artist) {
		t.Errorf("artist rules changed:\n got %+v\nwant %+v", got.Artist, p.Artist)
	}
	if len(got.Album) != 0 {
		t.Errorf("album rules appeared from nowhere: %+v", got.Album)
	}
}

func TestDocumentShape(t *testing.T) {
	data, err := MarshalDocument(samplePreset())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	for _, key := range []string{"name", "description", "version", "rules", "metadata"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document missing %q", key)
		}
	}

	ruleSets, ok := doc["rules"].(map[string]any)
	if !ok {
		t.Fatalf("rules is not an object: %T", doc["rules"])
	}
	title, ok := ruleSets["title"].([]any)
	if !ok || len(title) != 2 {
		t.Fatalf("unexpected title rules: %v", ruleSets["title"])
	}
	first, _ := title[0].(map[string]any)
	for _, key := range []string{"logic", "if_field", "if_operator", "if_value", "then_template"} {
		if _, ok := first[key]; !ok {
			t.Errorf("rule missing %q: %v", key, first)
		}
	}
	if first["is_first"] != true {
		t.Errorf("is_first not serialized: %v", first)
	}
}

func TestUnmarshalNormalizesAliases(t *testing.T) {
	data := []byte(`{
		"name": "aliases",
		"rules": {"title": [
			{"logic": "AND", "if_field": "coverartist", "if_operator": "is not empty", "if_value": "", "then_template": "x", "is_first": true}
		]}
	}`)

	p, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Title[0].Field != song.FieldCoverArtist {
		t.Errorf("alias not canonicalized: %q", p.Title[0].Field)
	}
	if p.Title[0].Logic != rules.LogicAnd {
		t.Errorf("logic = %q", p.Title[0].Logic)
	}
}

func TestUnmarshalRejectsMissingName(t *testing.T) {
	if _, err := UnmarshalDocument([]byte(`{"rules":{}}`)); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := UnmarshalDocument([]byte(`not json`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestUnmarshalDefaultsLogic(t *testing.T) {
	data := []byte(`{"name":"d","rules":{"artist":[{"if_field":"Artist","if_operator":"is","if_value":"x","then_template":"y","is_first":true}]}}`)
	p, err := UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Artist[0].Logic != rules.LogicAnd {
		t.Errorf("missing logic should default to AND, got %q", p.Artist[0].Logic)
	}
}
