package codec

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image/png"
	"io"

	"github.com/klauspost/compress/zlib"

	"fiximg/pkg/imgutil"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

type pngChunk struct {
	name string
	data []byte
}

// PNGOptimizer losslessly shrinks PNG files by merging the IDAT chunks and
// recompressing the zlib stream at the highest level. Pixel data and
// every other chunk are kept byte for byte, in order.
type PNGOptimizer struct {
	Level int
}

// NewPNGOptimizer returns an optimizer using zlib.BestCompression.
func NewPNGOptimizer() *PNGOptimizer {
	return &PNGOptimizer{Level: zlib.BestCompression}
}

func (o *PNGOptimizer) Optimize(ctx context.Context, src []byte) ([]byte, error) {
	if kind, err := imgutil.Sniff(src); err != nil || kind != imgutil.KindPNG {
		return nil, pngErr("invalid PNG signature")
	}

	chunks, err := readPNGChunks(src)
	if err != nil {
		return nil, err
	}
	if _, err := png.Decode(bytes.NewReader(src)); err != nil {
		return nil, &Error{Format: "png", Err: err}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var idat bytes.Buffer
	for _, c := range chunks {
		if c.name == "IDAT" {
			idat.Write(c.data)
		}
	}

	packed, err := o.recompress(idat.Bytes())
	if err != nil {
		return nil, err
	}
	if len(packed) >= idat.Len() {
		packed = idat.Bytes()
	}

	out := assemblePNG(chunks, packed)
	if len(out) >= len(src) {
		return src, nil
	}
	return out, nil
}

func (o *PNGOptimizer) recompress(stream []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, pngErr("image data: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, pngErr("image data: %v", err)
	}
	_ = zr.Close()

	level := o.Level
	if level == 0 {
		level = zlib.BestCompression
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, pngErr("zlib level %d: %v", level, err)
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, pngErr("recompress: %v", err)
	}
	if err := zw.Close(); err != nil {
		return nil, pngErr("recompress: %v", err)
	}
	return buf.Bytes(), nil
}

// readPNGChunks walks the chunk stream after the signature, checking each
// CRC. The stream must start with IHDR, contain IDAT and end at IEND.
func readPNGChunks(src []byte) ([]pngChunk, error) {
	rest := src[len(pngSignature):]
	var chunks []pngChunk
	sawIDAT := false

	for {
		if len(rest) < 12 {
			return nil, pngErr("truncated chunk stream")
		}
		length := binary.BigEndian.Uint32(rest[:4])
		if uint64(length)+12 > uint64(len(rest)) {
			return nil, pngErr("chunk length %d exceeds file", length)
		}
		name := string(rest[4:8])
		data := rest[8 : 8+length]
		want := binary.BigEndian.Uint32(rest[8+length : 12+length])
		if got := crc32.ChecksumIEEE(rest[4 : 8+length]); got != want {
			return nil, pngErr("bad CRC in %s chunk", name)
		}
		rest = rest[12+length:]

		if len(chunks) == 0 && name != "IHDR" {
			return nil, pngErr("first chunk is %s, want IHDR", name)
		}
		if name == "IDAT" {
			sawIDAT = true
		}
		chunks = append(chunks, pngChunk{name: name, data: data})

		if name == "IEND" {
			break
		}
	}

	if !sawIDAT {
		return nil, pngErr("no IDAT chunk")
	}
	return chunks, nil
}

// assemblePNG writes the chunks back out with a single IDAT holding idat,
// placed where the first IDAT was.
func assemblePNG(chunks []pngChunk, idat []byte) []byte {
	var buf bytes.Buffer
	buf.Write(pngSignature)

	wroteIDAT := false
	for _, c := range chunks {
		if c.name == "IDAT" {
			if wroteIDAT {
				continue
			}
			wroteIDAT = true
			writePNGChunk(&buf, "IDAT", idat)
			continue
		}
		writePNGChunk(&buf, c.name, c.data)
	}
	return buf.Bytes()
}

func writePNGChunk(buf *bytes.Buffer, name string, data []byte) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(data)))
	copy(hdr[4:], name)
	buf.Write(hdr[:])
	buf.Write(data)

	crc := crc32.NewIEEE()
	crc.Write(hdr[4:])
	crc.Write(data)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc.Sum32())
	buf.Write(sum[:])
}
