package transcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// id3v1Trailer builds a minimal 128-byte ID3v1 tag block
func id3v1Trailer(title, artist, album string) []byte {
	buf := make([]byte, 128)
	copy(buf[0:3], "TAG")
	copy(buf[3:33], title)
	copy(buf[33:63], artist)
	copy(buf[63:93], album)
	buf[127] = 255
	return buf
}

func TestReadEmbeddedTags(t *testing.T) {
	tags := ReadEmbeddedTags(id3v1Trailer("Night Drive", "Stemwave", "Demos"))

	assert.Equal(t, "Night Drive", tags.Title)
	assert.Equal(t, "Stemwave", tags.Artist)
	assert.Equal(t, "Demos", tags.Album)
	assert.NotEqual(t, EmbeddedTags{}, tags)
}

func TestReadEmbeddedTagsUntagged(t *testing.T) {
	assert.Equal(t, EmbeddedTags{}, ReadEmbeddedTags([]byte("no metadata in here at all")))
	assert.Equal(t, EmbeddedTags{}, ReadEmbeddedTags(nil))
}
