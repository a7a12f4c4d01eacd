package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// cacheKeySampleSize bounds how much content feeds the hash. Hashing only the
// head keeps keys stable for near-duplicate submissions that differ in
// trailing boilerplate.
const cacheKeySampleSize = 1000

// CacheKey derives a stable cache key from email content. The key is a short
// prefix of the content hash under an "analysis:" namespace.
func CacheKey(content string) string {
	sample := content
	if len(sample) > cacheKeySampleSize {
		sample = sample[:cacheKeySampleSize]
	}
	sum := sha256.Sum256([]byte(sample))
	return "analysis:" + hex.EncodeToString(sum[:])[:12]
}
