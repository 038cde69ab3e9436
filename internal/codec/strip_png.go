package codec

import "bytes"

// stripPNG drops textual, EXIF and timestamp chunks. Color management
// chunks (iCCP, gAMA, cHRM, sRGB) stay so pixels render the same.
func stripPNG(src []byte) ([]byte, error) {
	if !bytes.HasPrefix(src, pngSignature) {
		return nil, pngErr("invalid PNG signature")
	}
	chunks, err := readPNGChunks(src)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(src))
	buf.Write(pngSignature)
	for _, c := range chunks {
		if isPNGMetadataChunk(c.name) {
			continue
		}
		writePNGChunk(&buf, c.name, c.data)
	}
	return buf.Bytes(), nil
}

func isPNGMetadataChunk(name string) bool {
	switch name {
	case "tEXt", "zTXt", "iTXt", "eXIf", "tIME":
		return true
	default:
		return false
	}
}
