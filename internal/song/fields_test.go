package song

import "testing"

func TestCoerceVersion(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected float64
	}{
		{name: "plain integer string", value: "2", expected: 2.0},
		{name: "decimal string", value: "2.0", expected: 2.0},
		{name: "prefixed", value: "v2", expected: 2.0},
		{name: "suffixed decimal", value: "2.5x", expected: 2.5},
		{name: "embedded decimal", value: "v2.5x", expected: 2.5},
		{name: "no digits", value: "abc", expected: 0.0},
		{name: "empty string", value: "", expected: 0.0},
		{name: "nil", value: nil, expected: 0.0},
		{name: "already float", value: 3.5, expected: 3.5},
		{name: "integer", value: 4, expected: 4.0},
		{name: "negative", value: "-1.5", expected: -1.5},
		{name: "whitespace", value: "  7  ", expected: 7.0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceVersion(tc.value); got != tc.expected {
				t.Errorf("CoerceVersion(%v) = %v, want %v", tc.value, got, tc.expected)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{name: "whole float drops decimal", value: 3.0, expected: "3"},
		{name: "fractional float", value: 2.5, expected: "2.5"},
		{name: "string passthrough", value: "hello", expected: "hello"},
		{name: "nil is empty", value: nil, expected: ""},
		{name: "int", value: 12, expected: "12"},
		{name: "bool", value: true, expected: "true"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatValue(tc.value); got != tc.expected {
				t.Errorf("FormatValue(%v) = %q, want %q", tc.value, got, tc.expected)
			}
		})
	}
}

func TestCanonicalField(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		ok       bool
	}{
		{input: "title", expected: FieldTitle, ok: true},
		{input: "Title", expected: FieldTitle, ok: true},
		{input: "COVERARTIST", expected: FieldCoverArtist, ok: true},
		{input: "cover_artist", expected: FieldCoverArtist, ok: true},
		{input: "year", expected: FieldDate, ok: true},
		{input: "discnumber", expected: FieldDisc, ok: true},
		{input: " version ", expected: FieldVersion, ok: true},
		{input: "bogus", expected: "", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := CanonicalField(tc.input)
			if ok != tc.ok || got != tc.expected {
				t.Errorf("CanonicalField(%q) = (%q, %v), want (%q, %v)", tc.input, got, ok, tc.expected, tc.ok)
			}
		})
	}
}

func TestIdentityOf(t *testing.T) {
	f := Fields{
		FieldTitle:       "Song",
		FieldArtist:      "Artist",
		FieldCoverArtist: "Cover",
	}
	if got := IdentityOf(f); got != Identity("Song|Artist|Cover") {
		t.Errorf("IdentityOf = %q", got)
	}

	// Missing components collapse to empty strings, not errors.
	if got := IdentityOf(Fields{FieldTitle: "Solo"}); got != Identity("Solo||") {
		t.Errorf("IdentityOf partial = %q", got)
	}
}

func TestFieldsStringMissing(t *testing.T) {
	var f Fields
	if f.String(FieldTitle) != "" {
		t.Error("nil Fields should read as empty")
	}
	f = Fields{FieldVersion: 2.0}
	if f.String(FieldVersion) != "2" {
		t.Errorf("version formatting = %q, want 2", f.String(FieldVersion))
	}
}
