// Package index holds the versioned in-memory record index: committed
// metadata records plus a staging buffer, keyed by file path. Version
// resolution ("which recording of this song is the latest") is computed on
// demand from the committed set, never cached across a commit.
package index

import (
	"sort"

	"github.com/franz/metadata-customizer/internal/song"
)

// Record is one committed metadata record. Identity and Version are derived
// from the field map at commit time.
type Record struct {
	Path    string
	ID      song.Identity
	Version float64
	Fields  song.Fields
}

// Index tracks committed records and a staging buffer of pending writes.
// All methods assume a single writer; callers embedding the index in a
// concurrent host must serialize access themselves.
type Index struct {
	committed map[string]Record
	staging   map[string]song.Fields
}

// New creates an empty index.
func New() *Index {
	return &Index{
		committed: make(map[string]Record),
		staging:   make(map[string]song.Fields),
	}
}

// Load clears the index, stages every given record and commits them.
func (ix *Index) Load(records map[string]song.Fields) {
	ix.Clear()
	for path, fields := range records {
		ix.Stage(path, fields)
	}
	ix.Commit()
}

// Stage places fields into the staging buffer keyed by path. Staged data is
// invisible to version queries until Commit, but shadows committed data in
// Get for the same path.
func (ix *Index) Stage(path string, fields song.Fields) {
	ix.staging[path] = fields
}

// Commit merges all staged records into the committed set, replacing any
// committed record with the same path, then clears staging. Identity and
// version are derived here. No-op when staging is empty.
func (ix *Index) Commit() {
	if len(ix.staging) == 0 {
		return
	}
	for path, fields := range ix.staging {
		ix.committed[path] = Record{
			Path:    path,
			ID:      song.IdentityOf(fields),
			Version: song.CoerceVersion(fields[song.FieldVersion]),
			Fields:  fields,
		}
	}
	ix.staging = make(map[string]song.Fields)
}

// Clear drops all committed and staged data.
func (ix *Index) Clear() {
	ix.committed = make(map[string]Record)
	ix.staging = make(map[string]song.Fields)
}

// Remove drops the record for a path from both the committed set and the
// staging buffer.
func (ix *Index) Remove(path string) {
	delete(ix.committed, path)
	delete(ix.staging, path)
}

// Rename moves a record to a new path. The record's fields (staged data
// winning over committed) are re-staged under the new path; the old path is
// removed entirely.
func (ix *Index) Rename(oldPath, newPath string) {
	fields, ok := ix.Get(oldPath)
	ix.Remove(oldPath)
	if ok {
		ix.Stage(newPath, fields)
	}
}

// Get returns the field map for a path. Staged data shadows committed data.
func (ix *Index) Get(path string) (song.Fields, bool) {
	if fields, ok := ix.staging[path]; ok {
		return fields, true
	}
	if rec, ok := ix.committed[path]; ok {
		return rec.Fields, true
	}
	return nil, false
}

// GetRecord returns the committed record for a path.
func (ix *Index) GetRecord(path string) (Record, bool) {
	rec, ok := ix.committed[path]
	return rec, ok
}

// All returns the committed records sorted by path.
func (ix *Index) All() []Record {
	records := make([]Record, 0, len(ix.committed))
	for _, rec := range ix.committed {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}

// Len returns the number of committed records.
func (ix *Index) Len() int {
	return len(ix.committed)
}

// Pending returns the number of staged records awaiting commit.
func (ix *Index) Pending() int {
	return len(ix.staging)
}

// VersionsFor returns the distinct versions among committed records sharing
// the identity, sorted ascending.
func (ix *Index) VersionsFor(id song.Identity) []float64 {
	seen := make(map[float64]bool)
	for _, rec := range ix.committed {
		if rec.ID == id && !seen[rec.Version] {
			seen[rec.Version] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	versions := make([]float64, 0, len(seen))
	for v := range seen {
		versions = append(versions, v)
	}
	sort.Float64s(versions)
	return versions
}

// LatestVersion returns the highest version for an identity, or 0 when the
// identity has no committed records.
func (ix *Index) LatestVersion(id song.Identity) float64 {
	versions := ix.VersionsFor(id)
	if len(versions) == 0 {
		return 0
	}
	return versions[len(versions)-1]
}

// IsLatest reports whether the given version is the latest for the identity.
func (ix *Index) IsLatest(id song.Identity, version float64) bool {
	return version == ix.LatestVersion(id)
}

// IsLatestRecord reports whether a record carries the latest version for its
// own identity.
func (ix *Index) IsLatestRecord(rec Record) bool {
	return ix.IsLatest(rec.ID, rec.Version)
}
