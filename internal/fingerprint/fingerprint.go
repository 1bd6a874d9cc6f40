package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Size is the length in bytes of a content digest.
const Size = sha256.Size

// Digest is a fixed length content digest.
type Digest [Size]byte

// String returns the lowercase hex form stored alongside a version.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Sum computes the digest of content.
func Sum(content string) Digest {
	return sha256.Sum256([]byte(content))
}

// Of returns the hex encoded digest of content.
func Of(content string) string {
	return Sum(content).String()
}

// Equal reports whether content hashes to the given hex digest.
func Equal(content, digest string) bool {
	return digest != "" && Of(content) == digest
}
