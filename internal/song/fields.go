package song

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Canonical field names. These are the keys used in the embedded metadata
// document and everywhere inside the engine; user-facing spellings are
// resolved through the alias table below.
const (
	FieldTitle       = "Title"
	FieldArtist      = "Artist"
	FieldCoverArtist = "CoverArtist"
	FieldAlbum       = "Album"
	FieldVersion     = "Version"
	FieldDisc        = "Disc"
	FieldTrack       = "Track"
	FieldDate        = "Date"
	FieldComment     = "Comment"
	FieldSpecial     = "Special"
	FieldPath        = "Path"
)

// aliases maps lower-cased user-facing field names (as typed in search
// queries or stored in preset documents) to canonical field names.
var aliases = map[string]string{
	"title":        FieldTitle,
	"artist":       FieldArtist,
	"coverartist":  FieldCoverArtist,
	"cover_artist": FieldCoverArtist,
	"cover":        FieldCoverArtist,
	"album":        FieldAlbum,
	"version":      FieldVersion,
	"ver":          FieldVersion,
	"disc":         FieldDisc,
	"discnumber":   FieldDisc,
	"track":        FieldTrack,
	"date":         FieldDate,
	"year":         FieldDate,
	"comment":      FieldComment,
	"special":      FieldSpecial,
	"path":         FieldPath,
	"file":         FieldPath,
}

// SearchableFields are the fields free-text search terms are matched against.
var SearchableFields = []string{
	FieldTitle,
	FieldArtist,
	FieldCoverArtist,
	FieldDate,
	FieldComment,
	FieldSpecial,
	FieldVersion,
}

// CanonicalField resolves a user-facing field name through the alias table.
// Matching is case-insensitive. Returns false for unknown names.
func CanonicalField(name string) (string, bool) {
	canonical, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// AliasPattern returns a regexp alternation of all known field aliases,
// longest first so that e.g. "discnumber" is not misparsed as "disc".
func AliasPattern() string {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for i, k := range keys {
		keys[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(keys, "|")
}

// FormatValue renders an arbitrary field value as a string. Whole-number
// floats render without a trailing ".0" so that a version of 3.0 prints as "3".
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if !math.IsInf(t, 0) && !math.IsNaN(t) && t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return FormatValue(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}

var numberRe = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)

// CoerceVersion converts a raw version value to a float. Values that do not
// parse directly fall back to the first numeric substring ("v2.5x" -> 2.5);
// anything without one coerces to 0. Never fails.
func CoerceVersion(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	}

	s := strings.TrimSpace(FormatValue(v))
	if s == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if num := numberRe.FindString(s); num != "" {
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			return f
		}
	}
	return 0
}
