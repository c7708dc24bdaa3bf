// Package tags reads and writes MP3 metadata: the standard ID3v2 frames plus
// the embedded JSON document carried in a dedicated comment frame.
package tags

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"golang.org/x/text/unicode/norm"

	"github.com/franz/metadata-customizer/internal/song"
)

// documentLanguage marks the comment frame holding the JSON document.
const documentLanguage = "ved"

// Read loads the metadata fields of an MP3 file. Standard ID3 frames provide
// the base values; keys from the embedded JSON document override them. String
// values are NFC-normalized so identities compare consistently across files
// tagged on different platforms.
func Read(path string) (song.Fields, error) {
	fields := song.Fields{}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	m, tagErr := tag.ReadFrom(f)
	f.Close()

	if tagErr == nil {
		if v := m.Title(); v != "" {
			fields[song.FieldTitle] = norm.NFC.String(v)
		}
		if v := m.Artist(); v != "" {
			fields[song.FieldArtist] = norm.NFC.String(v)
		}
		if v := m.Album(); v != "" {
			fields[song.FieldAlbum] = norm.NFC.String(v)
		}
		if track, _ := m.Track(); track > 0 {
			fields[song.FieldTrack] = strconv.Itoa(track)
		}
		if disc, _ := m.Disc(); disc > 0 {
			fields[song.FieldDisc] = strconv.Itoa(disc)
		}
		if year := m.Year(); year > 0 {
			fields[song.FieldDate] = strconv.Itoa(year)
		}
	}

	doc, docErr := readDocument(path)
	if tagErr != nil && docErr != nil {
		return nil, fmt.Errorf("failed to read tags: %w", tagErr)
	}

	for key, value := range doc {
		if canonical, ok := song.CanonicalField(strings.ReplaceAll(key, " ", "_")); ok {
			key = canonical
		}
		if s, ok := value.(string); ok {
			value = norm.NFC.String(s)
		}
		fields[key] = value
	}

	return fields, nil
}

// readDocument collects the JSON document embedded in the file's comment
// frames. Every comment whose text parses as a JSON object contributes; later
// frames override earlier ones.
func readDocument(path string) (map[string]any, error) {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer id3tag.Close()

	doc := map[string]any{}
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Comments")) {
		comment, ok := frame.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		mergeDocument(doc, comment.Text)
	}
	return doc, nil
}

// mergeDocument merges one comment's text into the document. Comments that
// are not JSON objects are plain comments and are ignored.
func mergeDocument(doc map[string]any, text string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return
	}
	for k, v := range parsed {
		doc[k] = v
	}
}
