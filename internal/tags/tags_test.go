package tags

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"

	"github.com/franz/metadata-customizer/internal/song"
)

// createTestMP3 writes an MP3 file containing a single empty frame and no tag.
func createTestMP3(t *testing.T) string {
	t.Helper()

	frame := make([]byte, 417)
	frame[0] = 0xff
	frame[1] = 0xfb
	frame[2] = 0x90

	path := filepath.Join(t.TempDir(), "test.mp3")
	if err := os.WriteFile(path, frame, 0o600); err != nil {
		t.Fatalf("create file: %v", err)
	}
	return path
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := createTestMP3(t)

	fields := song.Fields{
		song.FieldTitle:       "Yesterday",
		song.FieldArtist:      "The Beatles",
		song.FieldCoverArtist: "Cover Band",
		song.FieldVersion:     2.5,
		song.FieldSpecial:     "live",
	}

	if err := Write(path, fields); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got.String(song.FieldTitle) != "Yesterday" {
		t.Errorf("title = %q", got.String(song.FieldTitle))
	}
	if got.String(song.FieldArtist) != "The Beatles" {
		t.Errorf("artist = %q", got.String(song.FieldArtist))
	}
	if got.String(song.FieldCoverArtist) != "Cover Band" {
		t.Errorf("cover artist = %q", got.String(song.FieldCoverArtist))
	}
	if v, ok := got[song.FieldVersion].(float64); !ok || v != 2.5 {
		t.Errorf("version = %v (%T)", got[song.FieldVersion], got[song.FieldVersion])
	}
	if got.String(song.FieldSpecial) != "live" {
		t.Errorf("special = %q", got.String(song.FieldSpecial))
	}
}

func TestWriteKeepsExistingTrackFrame(t *testing.T) {
	path := createTestMP3(t)

	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id3tag.SetVersion(4)
	id3tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, "3/12")
	if err := id3tag.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	id3tag.Close()

	fields := song.Fields{
		song.FieldTitle: "Song",
		song.FieldTrack: "5",
		song.FieldDisc:  "1",
	}
	if err := Write(path, fields); err != nil {
		t.Fatalf("write: %v", err)
	}

	id3tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer id3tag.Close()

	if got := textFrame(id3tag, "TRCK"); got != "3/12" {
		t.Errorf("TRCK = %q, want existing frame kept", got)
	}
	// No TPOS frame existed, so the document value fills it.
	if got := textFrame(id3tag, "TPOS"); got != "1" {
		t.Errorf("TPOS = %q, want fallback from fields", got)
	}
}

func TestWritePreservesForeignComments(t *testing.T) {
	path := createTestMP3(t)

	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	id3tag.SetVersion(4)
	id3tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "eng",
		Text:     "a plain comment",
	})
	if err := id3tag.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}
	id3tag.Close()

	if err := Write(path, song.Fields{song.FieldTitle: "Song"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Writing twice must not duplicate the document frame.
	if err := Write(path, song.Fields{song.FieldTitle: "Song"}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	id3tag, err = id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer id3tag.Close()

	var plain, doc int
	for _, frame := range id3tag.GetFrames(id3tag.CommonID("Comments")) {
		comment, ok := frame.(id3v2.CommentFrame)
		if !ok {
			continue
		}
		switch comment.Language {
		case documentLanguage:
			doc++
		default:
			plain++
		}
	}
	if plain != 1 {
		t.Errorf("plain comments = %d, want 1", plain)
	}
	if doc != 1 {
		t.Errorf("document comments = %d, want 1", doc)
	}
}

func TestWriteStripsLegacyTag(t *testing.T) {
	// ID3v2.2 header, which the id3v2 library refuses to parse.
	header := []byte{
		'I', 'D', '3',
		0x02, 0x00,
		0x00,
		0x00, 0x00, 0x00, 0x0a,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	}
	frame := make([]byte, 417)
	frame[0] = 0xff
	frame[1] = 0xfb
	frame[2] = 0x90

	path := filepath.Join(t.TempDir(), "legacy.mp3")
	if err := os.WriteFile(path, append(header, frame...), 0o600); err != nil {
		t.Fatalf("create file: %v", err)
	}

	if err := Write(path, song.Fields{song.FieldTitle: "Upgraded"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.String(song.FieldTitle) != "Upgraded" {
		t.Errorf("title = %q", got.String(song.FieldTitle))
	}
}

func TestReadNormalizesUnicode(t *testing.T) {
	path := createTestMP3(t)

	// Decomposed "é" (e + combining acute)
	if err := Write(path, song.Fields{song.FieldArtist: "Béyoncé"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if artist := got.String(song.FieldArtist); artist != "Béyoncé" {
		t.Errorf("artist not NFC-normalized: %q", artist)
	}
}

func TestEncodeDocument(t *testing.T) {
	doc, err := encodeDocument(song.Fields{
		song.FieldTitle:   "Q&A <Live>",
		song.FieldVersion: 2.0,
		song.FieldPath:    "/music/a.mp3",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if strings.Contains(doc, "\n") || strings.Contains(doc, "  ") {
		t.Errorf("document not compact: %q", doc)
	}
	if strings.Contains(doc, `<`) || strings.Contains(doc, `&`) {
		t.Errorf("document HTML-escaped: %q", doc)
	}
	if strings.Contains(doc, "Path") {
		t.Errorf("path leaked into document: %q", doc)
	}
	if !strings.Contains(doc, `"Version":2`) {
		t.Errorf("whole-number version rendered oddly: %q", doc)
	}
}

func TestMergeDocument(t *testing.T) {
	doc := map[string]any{}

	mergeDocument(doc, "just a comment")
	if len(doc) != 0 {
		t.Errorf("plain text merged: %v", doc)
	}

	mergeDocument(doc, `{"Title":"A","Version":1}`)
	mergeDocument(doc, `{"Title":"B"}`)
	if doc["Title"] != "B" {
		t.Errorf("later comment should win: %v", doc)
	}
	if v, ok := doc["Version"].(float64); !ok || v != 1 {
		t.Errorf("version lost: %v", doc)
	}
}
