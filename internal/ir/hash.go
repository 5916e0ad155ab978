package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows migrating an algorithm without collisions.
const (
	DomainContent  = "scribe/content/v1"
	DomainSelector = "scribe/selector/v1"
	DomainStyles   = "scribe/styles/v1"
	DomainResult   = "scribe/result/v1"
	DomainLayout   = "scribe/layout/v1"
	DomainFile     = "scribe/file/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash computes the content-addressed identity of v under domain.
// Returns an error if v cannot be canonically marshaled.
func Hash(domain string, v IRValue) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustHash is like Hash but panics on error.
// Use only when v is built from IR values known to be canonical.
func MustHash(domain string, v IRValue) string {
	h, err := Hash(domain, v)
	if err != nil {
		panic(err)
	}
	return h
}

// HashBytes identifies raw bytes (e.g. an image file) under domain.
func HashBytes(domain string, data []byte) string {
	return hashWithDomain(domain, data)
}
