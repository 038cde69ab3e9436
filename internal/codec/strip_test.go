package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiximg/pkg/imgutil"
)

func TestStripMetadataJPEG(t *testing.T) {
	src := buildJPEGWithExif()

	tags, err := CountExifTags(src)
	require.NoError(t, err)
	require.Greater(t, tags, 0)

	out, stripped, err := StripMetadata(imgutil.KindJPEG, src)
	require.NoError(t, err)
	assert.Equal(t, tags, stripped)
	assert.False(t, bytes.Contains(out, []byte("Exif\x00\x00")))
	assert.Equal(t, []byte{0xff, 0xd8}, out[:2])
	assert.Equal(t, []byte{0xff, 0xd9}, out[len(out)-2:])

	after, err := CountExifTags(out)
	require.NoError(t, err)
	assert.Zero(t, after)
}

func TestStripMetadataPNG(t *testing.T) {
	src := withChunksBeforeIEND(t, gradientPNG(t, 8, 8),
		buildPNGChunk("tEXt", []byte("Model\x00TestCam")),
		buildPNGChunk("tIME", []byte{0x07, 0xE8, 0x01, 0x02, 0x03, 0x04, 0x05}),
		buildPNGChunk("eXIf", buildExifTIFF()),
	)

	out, tags, err := StripMetadata(imgutil.KindPNG, src)
	require.NoError(t, err)
	assert.Equal(t, 2, tags)

	for _, name := range []string{"tEXt", "tIME", "eXIf"} {
		assert.False(t, bytes.Contains(out, []byte(name)), "chunk %s survived", name)
	}
	decodePNG(t, out)
}

func TestCountExifTags(t *testing.T) {
	tags, err := CountExifTags(buildJPEGWithExif())
	require.NoError(t, err)
	assert.Equal(t, 2, tags)

	tags, err = CountExifTags(minimalJPEG())
	require.NoError(t, err)
	assert.Zero(t, tags)

	tags, err = CountExifTags(gradientPNG(t, 8, 8))
	require.NoError(t, err)
	assert.Zero(t, tags)
}

func TestStripMetadataOtherPassesThrough(t *testing.T) {
	src := []byte("plain text")
	out, tags, err := StripMetadata(imgutil.KindOther, src)
	require.NoError(t, err)
	assert.Equal(t, src, out)
	assert.Zero(t, tags)
}

func TestStripMetadataRejectsMalformed(t *testing.T) {
	_, _, err := StripMetadata(imgutil.KindJPEG, []byte("nope"))
	assert.Error(t, err)

	_, _, err = StripMetadata(imgutil.KindPNG, []byte("nope"))
	assert.Error(t, err)
}
