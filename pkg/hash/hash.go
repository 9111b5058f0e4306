package hash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
)

type Algorithm string

const SHA256 Algorithm = "sha256"

// Hasher computes hex digests of uploaded documents.
type Hasher struct {
	algorithm Algorithm
}

func NewHasher(algorithm Algorithm) *Hasher {
	return &Hasher{algorithm: algorithm}
}

func (h *Hasher) Calculate(data []byte) (string, error) {
	hasher, err := h.newHash()
	if err != nil {
		return "", err
	}
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

func (h *Hasher) newHash() (hash.Hash, error) {
	switch h.algorithm {
	case SHA256:
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %s", h.algorithm)
	}
}
