package song

// Fields is the flat field map for one audio file: canonical fields plus any
// arbitrary raw fields carried in the embedded metadata document. Values keep
// their decoded JSON types (string, float64, bool).
type Fields map[string]any

// String returns the field value formatted as a string; missing fields
// return the empty string.
func (f Fields) String(key string) string {
	if f == nil {
		return ""
	}
	return FormatValue(f[key])
}

// Clone returns a shallow copy of the field map.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Identity is the composite song key (title|artist|coverArtist) that groups
// multiple recorded versions of the same logical song.
type Identity string

// IdentityOf derives the song identity from a field map.
func IdentityOf(f Fields) Identity {
	return Identity(f.String(FieldTitle) + "|" + f.String(FieldArtist) + "|" + f.String(FieldCoverArtist))
}
