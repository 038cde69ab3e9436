package imgutil

import (
	"bytes"
	"errors"
	"io"
	"os"
)

var (
	pngSig  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig = []byte{0xff, 0xd8, 0xff}
)

// DetectHeader inspects the first 8 bytes of a file for known signatures.
// Anything that is neither PNG nor JPEG reports KindOther.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 8 {
		return KindOther, errors.New("header too short")
	}

	if bytes.HasPrefix(header, jpegSig) {
		return KindJPEG, nil
	}
	if bytes.HasPrefix(header, pngSig) {
		return KindPNG, nil
	}

	return KindOther, nil
}

// SniffFile reads the first 8 bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindOther, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads the first 8 bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return KindOther, err
	}

	return DetectHeader(header)
}

// Sniff is DetectHeader for an in-memory buffer.
func Sniff(buf []byte) (Kind, error) {
	if len(buf) > 8 {
		buf = buf[:8]
	}
	return DetectHeader(buf)
}
