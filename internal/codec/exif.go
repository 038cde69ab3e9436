package codec

import (
	"errors"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"fiximg/pkg/imgutil"
)

// CountExifTags returns how many EXIF tags buf carries. buf is a whole
// JPEG or PNG; the EXIF block is located by its TIFF header. Files without
// an EXIF block report zero.
func CountExifTags(buf []byte) (int, error) {
	raw, err := exif.SearchAndExtractExif(buf)
	if err != nil {
		if isNoExif(err) {
			return 0, nil
		}
		return 0, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		return 0, err
	}
	return len(tags), nil
}

func isNoExif(err error) bool {
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

// StripMetadata removes privacy-relevant metadata from a PNG or JPEG and
// reports how many EXIF tags the input carried. Other kinds pass through
// unchanged.
func StripMetadata(kind imgutil.Kind, src []byte) ([]byte, int, error) {
	var (
		out []byte
		err error
	)
	switch kind {
	case imgutil.KindPNG:
		out, err = stripPNG(src)
	case imgutil.KindJPEG:
		out, err = stripJPEG(src)
	default:
		return src, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	// A malformed EXIF block is not worth failing the image over once it
	// has been removed.
	tags, _ := CountExifTags(src)
	return out, tags, nil
}
