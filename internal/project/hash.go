package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine builds H(content || dep1 || dep2 ...). Callers pass deps in a
// deterministic order.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// DesignDigest identifies a design by the content of its files in load
// order and the parameter overrides applied to it.
func DesignDigest(files []Digest, overrides []string) Digest {
	var seed Digest
	for _, o := range overrides {
		seed = Combine(seed, sha256.Sum256([]byte(o)))
	}
	return Combine(seed, files...)
}

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Short is the first 12 hex digits.
func (d Digest) Short() string { return d.String()[:12] }
