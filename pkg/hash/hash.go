package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// SHA256Hex returns the hex-encoded SHA256 hash of the input string.
func SHA256Hex(input string) string {
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:])
}

// IteratedSHA256 applies SHA256 iteratively n times to produce a derived hash.
func IteratedSHA256(input string, iterations int) string {
	data := []byte(input)
	for i := 0; i < iterations; i++ {
		h := sha256.Sum256(data)
		data = h[:]
	}
	return hex.EncodeToString(data)
}

// HashIP hashes an IP address with a salt using 5000 iterations of SHA256.
// Raw IPs are never persisted; collision signals compare hashes only.
func HashIP(ip, salt string) string {
	return IteratedSHA256(salt+ip, 5000)
}

// HashFingerprint normalizes a raw device fingerprint to a fixed-width key.
func HashFingerprint(fingerprint string) string {
	return SHA256Hex(fingerprint)
}

// ShortHash returns the first n characters of SHA256(input), used for
// log correlation without storing the raw value.
func ShortHash(input string, n int) string {
	full := SHA256Hex(input)
	if n > len(full) {
		return full
	}
	return full[:n]
}
