// Package addr derives content addresses for optimized payloads.
package addr

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Digest is the lowercase hex rendering of a 256-bit BLAKE3 hash.
type Digest string

// Of hashes buf. Identical bytes always produce the same Digest.
func Of(buf []byte) Digest {
	sum := blake3.Sum256(buf)
	return Digest(hex.EncodeToString(sum[:]))
}

// Filename returns "<digest>.<ext>". The extension is used as given so
// the output keeps whatever case the source file had. An empty
// extension still yields the trailing dot.
func Filename(d Digest, ext string) string {
	return string(d) + "." + ext
}

func (d Digest) String() string {
	return string(d)
}
