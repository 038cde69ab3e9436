package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

var (
	jpegExifHeader = []byte("Exif\x00\x00")
	jpegXmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	jpegPhotoshop  = []byte("Photoshop 3.0\x00")
)

// stripJPEG copies the marker stream, leaving out APP1 EXIF/XMP and APP13
// IPTC segments. ICC profiles (APP2) are kept. Entropy-coded data after
// SOS is copied through untouched.
func stripJPEG(src []byte) ([]byte, error) {
	br := bufio.NewReader(bytes.NewReader(src))
	var out bytes.Buffer
	out.Grow(len(src))

	soi := make([]byte, 2)
	if _, err := io.ReadFull(br, soi); err != nil {
		return nil, jpegErr("read SOI: %v", err)
	}
	if soi[0] != 0xff || soi[1] != 0xd8 {
		return nil, jpegErr("invalid JPEG SOI")
	}
	out.Write(soi)

	for {
		marker, err := nextJPEGMarker(br)
		if err != nil {
			return nil, jpegErr("read marker: %v", err)
		}

		switch {
		case marker == 0xd9: // EOI
			out.Write([]byte{0xff, 0xd9})
			return out.Bytes(), nil
		case marker == 0xda: // SOS
			out.Write([]byte{0xff, marker})
			if _, err := io.Copy(&out, br); err != nil {
				return nil, jpegErr("copy scan data: %v", err)
			}
			return out.Bytes(), nil
		case marker == 0x01 || (marker >= 0xd0 && marker <= 0xd7):
			out.Write([]byte{0xff, marker})
			continue
		}

		lenBuf := make([]byte, 2)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			return nil, jpegErr("read segment length: %v", err)
		}
		segLen := int(binary.BigEndian.Uint16(lenBuf))
		if segLen < 2 {
			return nil, jpegErr("invalid segment length %d", segLen)
		}
		payload := make([]byte, segLen-2)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, jpegErr("read segment: %v", err)
		}

		if isJPEGMetadataSegment(marker, payload) {
			continue
		}
		out.Write([]byte{0xff, marker})
		out.Write(lenBuf)
		out.Write(payload)
	}
}

// nextJPEGMarker skips fill bytes and returns the next marker code.
func nextJPEGMarker(br *bufio.Reader) (byte, error) {
	b, err := br.ReadByte()
	for err == nil && b != 0xff {
		b, err = br.ReadByte()
	}
	if err != nil {
		return 0, err
	}

	marker, err := br.ReadByte()
	for err == nil && marker == 0xff {
		marker, err = br.ReadByte()
	}
	return marker, err
}

func isJPEGMetadataSegment(marker byte, payload []byte) bool {
	switch marker {
	case 0xe1:
		return bytes.HasPrefix(payload, jpegExifHeader) || bytes.HasPrefix(payload, jpegXmpHeader)
	case 0xed:
		return bytes.HasPrefix(payload, jpegPhotoshop)
	default:
		return false
	}
}
