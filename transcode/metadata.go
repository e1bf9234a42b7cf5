package transcode

import (
	"bytes"

	"github.com/dhowden/tag"
)

// EmbeddedTags holds metadata read from the raw (pre-transcode) buffer, for
// observability only. Fields stay empty when the container carries no tags.
type EmbeddedTags struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

// ReadEmbeddedTags probes the raw audio buffer for embedded metadata. Tag
// parsing failures are not decode failures; callers get an empty result.
func ReadEmbeddedTags(raw []byte) EmbeddedTags {
	m, err := tag.ReadFrom(bytes.NewReader(raw))
	if err != nil {
		return EmbeddedTags{}
	}
	return EmbeddedTags{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Genre:  m.Genre(),
	}
}
