package query

import (
	"strconv"
	"strings"

	"github.com/franz/metadata-customizer/internal/index"
	"github.com/franz/metadata-customizer/internal/song"
)

// LatestFunc reports whether a record carries the latest version for its
// identity. The caller derives it from the index so the filter itself stays
// free of version bookkeeping.
type LatestFunc func(index.Record) bool

// Apply narrows a record set with parsed filters and free-text terms. An
// empty query returns the input unchanged. Filters apply sequentially; free
// terms AND together, each required to match at least one searchable field
// case-insensitively.
func Apply(records []index.Record, filters []Filter, terms []string, latest LatestFunc) []index.Record {
	out := records
	for _, f := range filters {
		out = applyFilter(out, f, latest)
	}
	for _, term := range terms {
		out = applyTerm(out, term)
	}
	return out
}

func applyFilter(records []index.Record, f Filter, latest LatestFunc) []index.Record {
	// version==latest matches records whose version is the newest for their
	// identity; != / !~ invert it.
	if f.Field == song.FieldVersion && strings.EqualFold(f.Value, "latest") {
		switch f.Op {
		case "==", "=", "~":
			return filterRecords(records, func(r index.Record) bool { return latest != nil && latest(r) })
		case "!=", "!~":
			return filterRecords(records, func(r index.Record) bool { return latest != nil && !latest(r) })
		}
		// Relational operators fall through to the numeric path, where a
		// non-numeric value fails closed.
	}

	if f.Field == song.FieldVersion {
		want, err := strconv.ParseFloat(f.Value, 64)
		if err != nil {
			// Conversion failure excludes everything; it never errors.
			return nil
		}
		return filterRecords(records, func(r index.Record) bool {
			switch f.Op {
			case ">":
				return r.Version > want
			case "<":
				return r.Version < want
			case ">=":
				return r.Version >= want
			case "<=":
				return r.Version <= want
			case "==", "=", "~":
				return r.Version == want
			case "!=", "!~":
				return r.Version != want
			}
			return false
		})
	}

	// A quoted value narrows "=" and "~" from containment to equality.
	want := strings.ToLower(f.Value)
	return filterRecords(records, func(r index.Record) bool {
		got := strings.ToLower(fieldValue(r, f.Field))
		switch f.Op {
		case "==":
			return got == want
		case "!=":
			return got != want
		case "=", "~":
			if f.Quoted {
				return got == want
			}
			return strings.Contains(got, want)
		case "!~":
			if f.Quoted {
				return got != want
			}
			return !strings.Contains(got, want)
		case ">":
			return got > want
		case "<":
			return got < want
		case ">=":
			return got >= want
		case "<=":
			return got <= want
		}
		return false
	})
}

func applyTerm(records []index.Record, term string) []index.Record {
	return filterRecords(records, func(r index.Record) bool {
		for _, field := range song.SearchableFields {
			if strings.Contains(strings.ToLower(fieldValue(r, field)), term) {
				return true
			}
		}
		return false
	})
}

func fieldValue(r index.Record, field string) string {
	if field == song.FieldPath {
		return r.Path
	}
	if field == song.FieldVersion {
		return song.FormatValue(r.Version)
	}
	return r.Fields.String(field)
}

func filterRecords(records []index.Record, keep func(index.Record) bool) []index.Record {
	var out []index.Record
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
