// Package idcoin derives deterministic, stable identifiers for files and
// directories from their workspace-relative path.
//
// Identity: FileID and DirID are pure functions of the relative path — the
// same path always yields the same id, and two different paths are not
// expected to collide in practice (a 16-hex-character prefix of a SHA-256
// digest is a 64-bit value, so collisions only become likely around 2^32
// distinct paths, ample for single-workspace corpora). Directories are hashed with a "dir:" prefix so a directory and
// a file that happen to share a relative path never coin the same id.
package idcoin

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/cespare/xxhash/v2"
)

const idLength = 16

// FileID returns the stable identifier for a file at the given
// workspace-relative path.
func FileID(relativePath string) string {
	return digest(relativePath)
}

// DirID returns the stable identifier for a directory at the given
// workspace-relative path.
func DirID(relativePath string) string {
	return digest("dir:" + relativePath)
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:idLength]
}

// ContentChecksum computes a fast, non-cryptographic checksum of file
// content for change detection on FileKnowledge.Checksum. It is not used
// for identity — only FileID/DirID are, and those are derived from the
// path, never the content.
func ContentChecksum(content []byte) string {
	return hex.EncodeToString(xxhashSum(content))
}

func xxhashSum(content []byte) []byte {
	h := xxhash.Sum64(content)
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return b
}
