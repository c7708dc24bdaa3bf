package tags

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"

	"github.com/franz/metadata-customizer/internal/song"
)

const id3Magic = "ID3"

// Write rewrites an MP3 file's metadata from the given fields: the standard
// ID3v2.4 frames for title, artist and album, plus the compact JSON document
// in the dedicated comment frame. Track, disc and date frames already present
// in the file are kept; missing ones are filled from the document values.
// Comment frames other than the document frame are preserved.
func Write(path string, fields song.Fields) error {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older tags - strip them and retry
		if stripErr := stripLegacyTag(path); stripErr != nil {
			return fmt.Errorf("failed to strip unsupported tag: %w", stripErr)
		}
		id3tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	}
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer id3tag.Close()

	// ID3v2.4 with UTF-8 for full Unicode support
	id3tag.SetVersion(4)
	id3tag.SetDefaultEncoding(id3v2.EncodingUTF8)

	setOrClear(id3tag, "TIT2", fields.String(song.FieldTitle))
	setOrClear(id3tag, "TPE1", fields.String(song.FieldArtist))
	setOrClear(id3tag, "TALB", fields.String(song.FieldAlbum))

	fillMissing(id3tag, "TRCK", song.FormatValue(fields[song.FieldTrack]))
	fillMissing(id3tag, "TPOS", song.FormatValue(fields[song.FieldDisc]))
	fillMissing(id3tag, "TDRC", song.FormatValue(fields[song.FieldDate]))

	// Replace the document comment, keeping any other comments intact.
	commID := id3tag.CommonID("Comments")
	var kept []id3v2.CommentFrame
	for _, frame := range id3tag.GetFrames(commID) {
		if comment, ok := frame.(id3v2.CommentFrame); ok && comment.Language != documentLanguage {
			kept = append(kept, comment)
		}
	}
	id3tag.DeleteFrames(commID)
	for _, comment := range kept {
		id3tag.AddCommentFrame(comment)
	}

	doc, err := encodeDocument(fields)
	if err != nil {
		return err
	}
	id3tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: documentLanguage,
		Text:     doc,
	})

	if err := id3tag.Save(); err != nil {
		return fmt.Errorf("failed to save tags: %w", err)
	}
	return nil
}

// encodeDocument renders the fields as a compact JSON object. The path is a
// runtime attribute, not metadata, and stays out of the document.
func encodeDocument(fields song.Fields) (string, error) {
	doc := make(map[string]any, len(fields))
	for key, value := range fields {
		if key == song.FieldPath {
			continue
		}
		doc[key] = value
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode metadata document: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// setOrClear replaces a text frame, removing it when the value is empty.
func setOrClear(id3tag *id3v2.Tag, frameID, value string) {
	id3tag.DeleteFrames(frameID)
	if value != "" {
		id3tag.AddTextFrame(frameID, id3v2.EncodingUTF8, value)
	}
}

// fillMissing adds a text frame only when the file has none and a fallback
// value exists.
func fillMissing(id3tag *id3v2.Tag, frameID, fallback string) {
	if fallback == "" || textFrame(id3tag, frameID) != "" {
		return
	}
	id3tag.AddTextFrame(frameID, id3v2.EncodingUTF8, fallback)
}

// textFrame reads a text frame value from an ID3v2 tag.
func textFrame(id3tag *id3v2.Tag, frameID string) string {
	frames := id3tag.GetFrames(frameID)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}

// stripLegacyTag removes an ID3v2 tag block from the front of a file. Used
// for ID3v2.2 tags, which the id3v2 library cannot parse.
func stripLegacyTag(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) < 10 || string(data[:3]) != id3Magic {
		return nil
	}

	// Tag size is a synchsafe integer in bytes 6-9 (7 bits per byte)
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	tagSize := size + 10

	// ID3v2.4 footer flag adds another 10 bytes
	if data[5]&0x10 != 0 {
		tagSize += 10
	}

	if tagSize >= len(data) {
		return fmt.Errorf("tag size (%d) exceeds file size (%d)", tagSize, len(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	if err := os.WriteFile(path, data[tagSize:], info.Mode()); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
